package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"watchlist/config"
	"watchlist/internal/auth"
	"watchlist/internal/models"
	"watchlist/internal/repository"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupInput struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// dummyHash is compared against when the email is unknown so both failure paths cost one bcrypt.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("watchlist-dummy-password"), bcrypt.DefaultCost)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Signup registers a user and returns a session token for them.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, "", structErrors(err)
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, "", emailTaken()
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &models.User{Username: in.Username, Email: in.Email, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", emailTaken()
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Signin verifies credentials. Unknown email and wrong password both yield ErrInvalidCreds.
func (s *AuthService) Signin(ctx context.Context, in SigninInput) (*models.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, "", structErrors(err)
	}

	u, err := s.userRepo.GetByEmail(ctx, in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, "", ErrInvalidCreds
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", ErrInvalidCreds
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailTaken() error {
	return ValidationErrors{{Field: "email", Message: "Email already registered"}}
}

// structErrors turns validator failures into field errors keyed by JSON name.
func structErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out.add(fe.Field(), fieldMessage(fe))
	}
	return out
}

var fieldMessages = map[string]string{
	"username.max": "Username must be less than 50 characters",
	"password.max": "Password is too long",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	label := fe.Field()
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
