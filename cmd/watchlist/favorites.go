package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"watchlist/pkg/client"

	"github.com/urfave/cli/v3"
)

func favoriteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
		&cli.StringFlag{Name: "type", Usage: "movie or show"},
		&cli.StringFlag{Name: "director"},
		&cli.FloatFlag{Name: "budget"},
		&cli.StringFlag{Name: "location"},
		&cli.StringFlag{Name: "duration", Usage: `e.g. "148 min"`},
		&cli.IntFlag{Name: "year"},
		&cli.StringFlag{Name: "poster-url"},
	}
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List your favorites",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10},
			&cli.StringFlag{Name: "type", Usage: "all, movie or show", Value: client.TypeAll},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Match title or director"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Keep fetching until the last page"},
		},
		Action: r.List,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one favorite",
		ArgsUsage: "<id>",
		Action:    r.Show,
	}
}

func addCommand(r *Runner) *cli.Command {
	flags := append(favoriteFlags(), &cli.Int64Flag{
		Name:  "from-catalog",
		Usage: "Prefill fields from a catalog movie id; other flags override",
	})
	return &cli.Command{
		Name:   "add",
		Usage:  "Add a favorite",
		Flags:  flags,
		Action: r.Add,
	}
}

func editCommand(r *Runner) *cli.Command {
	flags := append(favoriteFlags(), &cli.StringSliceFlag{
		Name:  "clear",
		Usage: "Optional fields to empty (director, budget, location, duration, year, poster-url)",
	})
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change fields of a favorite; only the changed ones are sent",
		ArgsUsage: "<id>",
		Flags:     flags,
		Action:    r.Edit,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a favorite",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Do not ask for confirmation"},
		},
		Action: r.Remove,
	}
}

func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	params := client.ListParams{
		Page:   cmd.Int("page"),
		Limit:  cmd.Int("limit"),
		Type:   cmd.String("type"),
		Search: cmd.String("search"),
	}
	if params.Type == client.TypeAll {
		params.Type = ""
	}

	page, err := r.client.ListFavorites(ctx, params)
	if err != nil {
		return err
	}
	items := page.Data
	for cmd.Bool("all") && page.Pagination.HasMore {
		params.Page = page.Pagination.Page + 1
		if page, err = r.client.ListFavorites(ctx, params); err != nil {
			return err
		}
		items = append(items, page.Data...)
	}

	if r.json {
		return r.writeJSON(client.FavoritePage{Data: items, Pagination: page.Pagination})
	}
	if len(items) == 0 {
		return r.writePlain("No favorites yet\n")
	}
	if err := r.writeTable(items); err != nil {
		return err
	}
	p := page.Pagination
	return r.writePlain("\nPage %d of %d, %d total\n", p.Page, max(p.Pages, 1), p.Total)
}

func (r *Runner) writeTable(items []client.Favorite) error {
	w := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tYEAR\tDIRECTOR")
	for _, f := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.Title, f.Type, orDash(f.Year), orDash(f.Director))
	}
	return w.Flush()
}

func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	id, err := favoriteArg(cmd)
	if err != nil {
		return err
	}
	fav, err := r.client.GetFavorite(ctx, id)
	if err != nil {
		return err
	}
	return r.writeFavorite(fav)
}

func (r *Runner) writeFavorite(f *client.Favorite) error {
	if r.json {
		return r.writeJSON(f)
	}
	w := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%d\n", f.ID)
	fmt.Fprintf(w, "Title\t%s\n", f.Title)
	fmt.Fprintf(w, "Type\t%s\n", f.Type)
	fmt.Fprintf(w, "Director\t%s\n", orDash(f.Director))
	fmt.Fprintf(w, "Budget\t%s\n", orDash(f.Budget))
	fmt.Fprintf(w, "Location\t%s\n", orDash(f.Location))
	fmt.Fprintf(w, "Duration\t%s\n", orDash(f.Duration))
	fmt.Fprintf(w, "Year\t%s\n", orDash(f.Year))
	fmt.Fprintf(w, "Poster\t%s\n", orDash(f.PosterURL))
	return w.Flush()
}

func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	var draft client.FavoriteDraft
	if id := cmd.Int64("from-catalog"); id > 0 {
		details, err := r.client.CatalogDetails(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch catalog movie %d: %w", id, err)
		}
		draft = details.Draft()
	}
	if cmd.IsSet("title") {
		draft.Title = cmd.String("title")
	}
	if cmd.IsSet("type") {
		draft.Type = cmd.String("type")
	}
	if draft.Type == "" {
		draft.Type = client.TypeMovie
	}
	setString(cmd, "director", &draft.Director)
	setString(cmd, "location", &draft.Location)
	setString(cmd, "duration", &draft.Duration)
	setString(cmd, "poster-url", &draft.PosterURL)
	if cmd.IsSet("budget") {
		v := cmd.Float("budget")
		draft.Budget = &v
	}
	if cmd.IsSet("year") {
		v := cmd.Int("year")
		draft.Year = &v
	}

	fav, err := r.client.CreateFavorite(ctx, draft)
	if err != nil {
		return err
	}
	if r.json {
		return r.writeJSON(fav)
	}
	return r.writePlain("✓ Added %q (id %d)\n", fav.Title, fav.ID)
}

func (r *Runner) Edit(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	id, err := favoriteArg(cmd)
	if err != nil {
		return err
	}
	fav, err := r.client.GetFavorite(ctx, id)
	if err != nil {
		return err
	}

	edit := client.NewEditSession(r.client, *fav)
	d := &edit.Draft
	if cmd.IsSet("title") {
		d.Title = cmd.String("title")
	}
	if cmd.IsSet("type") {
		d.Type = cmd.String("type")
	}
	setString(cmd, "director", &d.Director)
	setString(cmd, "location", &d.Location)
	setString(cmd, "duration", &d.Duration)
	setString(cmd, "poster-url", &d.PosterURL)
	if cmd.IsSet("budget") {
		v := cmd.Float("budget")
		d.Budget = &v
	}
	if cmd.IsSet("year") {
		v := cmd.Int("year")
		d.Year = &v
	}
	for _, field := range cmd.StringSlice("clear") {
		if err := clearField(d, field); err != nil {
			return err
		}
	}

	updated, err := edit.Save(ctx)
	if errors.Is(err, client.ErrNoChanges) {
		return r.writePlain("Nothing to update\n")
	}
	if err != nil {
		return err
	}
	if r.json {
		return r.writeJSON(updated)
	}
	return r.writePlain("✓ Updated %q\n", updated.Title)
}

func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	id, err := favoriteArg(cmd)
	if err != nil {
		return err
	}
	fav, err := r.client.GetFavorite(ctx, id)
	if err != nil {
		return err
	}
	if !cmd.Bool("yes") && !r.confirm(fmt.Sprintf("Delete %q?", fav.Title)) {
		return r.writePlain("Kept %q\n", fav.Title)
	}
	if err := r.client.DeleteFavorite(ctx, id); err != nil && !client.IsNotFound(err) {
		return err
	}
	return r.writePlain("✓ Deleted %q\n", fav.Title)
}

func favoriteArg(cmd *cli.Command) (uint, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("missing favorite id")
	}
	id, err := strconv.ParseUint(arg, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid favorite id %q", arg)
	}
	return uint(id), nil
}

func setString(cmd *cli.Command, name string, dst **string) {
	if cmd.IsSet(name) {
		v := cmd.String(name)
		*dst = &v
	}
}

func clearField(f *client.Favorite, field string) error {
	switch strings.ToLower(field) {
	case "director":
		f.Director = nil
	case "budget":
		f.Budget = nil
	case "location":
		f.Location = nil
	case "duration":
		f.Duration = nil
	case "year":
		f.Year = nil
	case "poster-url", "posterurl", "poster":
		f.PosterURL = nil
	default:
		return fmt.Errorf("cannot clear %q", field)
	}
	return nil
}

func orDash[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
