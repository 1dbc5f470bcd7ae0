package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	app := newApp(NewRunner(RunnerOpts{Logger: logger}))
	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("watchlist: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watchlist",
		Usage: "Manage your favorite movies and shows from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of the watchlist server",
				Value:   "http://localhost:3000",
				Sources: cli.EnvVars("WATCHLIST_SERVER"),
			},
			&cli.StringFlag{
				Name:    "token-file",
				Usage:   "Where the session token is kept (default: user config dir)",
				Sources: cli.EnvVars("WATCHLIST_TOKEN_FILE"),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log requests to stderr",
			},
		},
		Before:   r.Init,
		Commands: r.register(),
	}
}
