package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"watchlist/pkg/client"

	"github.com/urfave/cli/v3"
)

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the movie catalog",
		ArgsUsage: "<query>",
		Action:    r.Search,
	}
}

func detailsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "details",
		Usage:     "Show a catalog movie as it would be saved",
		ArgsUsage: "<catalog id>",
		Action:    r.Details,
	}
}

func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Follow changes to your favorites from any device",
		Action: r.Watch,
	}
}

func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("missing search query")
	}
	results, err := r.client.SearchCatalog(ctx, query)
	if err != nil {
		return err
	}
	if r.json {
		return r.writeJSON(results)
	}
	if len(results) == 0 {
		return r.writePlain("No matches for %q\n", query)
	}
	w := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tRELEASED")
	for _, m := range results {
		released := m.ReleaseDate
		if released == "" {
			released = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID, m.Title, released)
	}
	return w.Flush()
}

func (r *Runner) Details(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	arg := cmd.Args().First()
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid catalog id %q", arg)
	}
	details, err := r.client.CatalogDetails(ctx, id)
	if err != nil {
		return err
	}
	if r.json {
		return r.writeJSON(details)
	}
	d := details.Draft()
	return r.writeFavorite(&client.Favorite{
		Title:     d.Title,
		Type:      d.Type,
		Director:  d.Director,
		Budget:    d.Budget,
		Location:  d.Location,
		Duration:  d.Duration,
		Year:      d.Year,
		PosterURL: d.PosterURL,
	})
}

// Watch prints feed events until interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Debug("watching favorites")
	err := r.client.WatchFavorites(ctx, func(ev client.FavoriteEvent) {
		if r.json {
			r.writeJSON(ev)
			return
		}
		title := ""
		if ev.Favorite != nil {
			title = ev.Favorite.Title
		}
		r.writePlain("%s  %-16s  %d  %s\n", time.Now().Format(time.TimeOnly), ev.Type, ev.ID, title)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
