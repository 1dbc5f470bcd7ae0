package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"watchlist/pkg/client"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// Runner holds the dependencies shared by every CLI command.
type Runner struct {
	client *client.Client
	store  client.TokenStore
	logger *logrus.Logger
	output io.Writer
	input  *bufio.Reader
	json   bool
}

type RunnerOpts struct {
	Client *client.Client
	Store  client.TokenStore
	Logger *logrus.Logger
	Output io.Writer
	Input  io.Reader
}

func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	return &Runner{
		client: opts.Client,
		store:  opts.Store,
		logger: opts.Logger,
		output: opts.Output,
		input:  bufio.NewReader(opts.Input),
	}
}

// Init builds the API client from the global flags unless one was injected.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.json = cmd.Bool("json")
	if cmd.Bool("verbose") {
		r.logger.SetLevel(logrus.DebugLevel)
	}
	if r.client != nil {
		return ctx, nil
	}

	if r.store == nil {
		path := cmd.String("token-file")
		if path == "" {
			p, err := client.DefaultTokenPath()
			if err != nil {
				return ctx, fmt.Errorf("locate token file: %w", err)
			}
			path = p
		}
		r.store = client.FileTokenStore{Path: path}
	}

	session := client.NewSession(r.store)
	if err := session.Init(); err != nil {
		return ctx, fmt.Errorf("restore session: %w", err)
	}
	server := cmd.String("server")
	r.logger.WithField("server", server).Debug("client ready")
	r.client = client.New(server, session)
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		signupCommand, signinCommand, logoutCommand, whoamiCommand,
		listCommand, showCommand, addCommand, editCommand, removeCommand,
		searchCommand, detailsCommand, watchCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// requireSession fails fast instead of letting the server answer 401.
func (r *Runner) requireSession() error {
	if !r.client.Session().Authenticated() {
		return fmt.Errorf("%w: run 'watchlist signin' first", client.ErrSignedOut)
	}
	return nil
}

// confirm asks a yes/no question on the runner's input; anything but y/yes is no.
func (r *Runner) confirm(question string) bool {
	r.writePlain("%s [y/N] ", question)
	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
