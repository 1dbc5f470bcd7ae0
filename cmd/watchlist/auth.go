package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func signupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("WATCHLIST_PASSWORD")},
		},
		Action: r.Signup,
	}
}

func signinCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "signin",
		Usage: "Sign in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("WATCHLIST_PASSWORD")},
		},
		Action: r.Signin,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored session",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in account",
		Action: r.Whoami,
	}
}

func (r *Runner) Signup(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Signup(ctx, cmd.String("username"), cmd.String("email"), cmd.String("password")); err != nil {
		return err
	}
	return r.printSignedIn()
}

func (r *Runner) Signin(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Signin(ctx, cmd.String("email"), cmd.String("password")); err != nil {
		return err
	}
	return r.printSignedIn()
}

func (r *Runner) printSignedIn() error {
	user, _ := r.client.Session().User()
	if r.json {
		return r.writeJSON(user)
	}
	return r.writePlain("✓ Signed in as %s <%s>\n", user.Username, user.Email)
}

func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	r.client.Logout()
	return r.writePlain("Signed out\n")
}

func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	user, err := r.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetch account: %w", err)
	}
	if r.json {
		return r.writeJSON(user)
	}
	return r.writePlain("%s <%s> (id %d)\n", user.Username, user.Email, user.ID)
}
