package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/desertthunder/wandrix/internal/explore"
	"github.com/desertthunder/wandrix/internal/formatter"
	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/services"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/desertthunder/wandrix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExploreList lists catalog destinations matching --search. A term that names nothing in the
// catalog is offered as a custom destination.
func (r *Runner) ExploreList(ctx context.Context, cmd *cli.Command) error {
	term := cmd.String("search")
	dests := explore.Search(term)
	if len(dests) == 0 {
		if d, ok := explore.Custom(term); ok {
			dests = append(dests, d)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(dests, true)
	}
	return r.writeMarkdown(formatter.DestinationsToMarkdown("Destinations", dests))
}

// ExploreHighlights shows, and optionally exports, a destination's highlights.
func (r *Runner) ExploreHighlights(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("destination")
	if name == "" {
		return fmt.Errorf("%w: destination", shared.ErrMissingArgument)
	}

	res, err := r.engine.Fetch(ctx, name)
	if err != nil {
		return err
	}
	h := res.Highlights

	if cmd.Bool("json") {
		if err := r.writeJSON(h, true); err != nil {
			return err
		}
	} else if err := r.writeMarkdown(formatter.HighlightsToMarkdown(h, formatter.HeroURL(name))); err != nil {
		return err
	}
	if h.Failed() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, h.Error)
	}

	if dir := cmd.String("output"); dir != "" {
		imageURL := ""
		if cmd.Bool("image") {
			imageURL = formatter.HeroURL(name)
		}
		exp, err := formatter.WriteHighlightsExport(h, dir, imageURL)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %d files to %s\n", len(exp.Files), exp.Directory)
	}
	return nil
}

// ExploreInfo shows general information for a destination.
func (r *Runner) ExploreInfo(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("destination")
	if name == "" {
		return fmt.Errorf("%w: destination", shared.ErrMissingArgument)
	}

	res, err := r.client.DestinationInfo(ctx, name)
	if err != nil {
		return err
	}
	var info models.DestinationInfo
	if err := res.Decode(&info); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, res.ErrorMessage())
	}

	if cmd.Bool("json") {
		return r.writeRaw(res.Data, info)
	}
	return r.writeMarkdown(formatter.DestinationInfoToMarkdown(info))
}

// ExplorePopular lists the API's featured destinations.
func (r *Runner) ExplorePopular(ctx context.Context, cmd *cli.Command) error {
	res, err := r.client.PopularDestinations(ctx)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, res.ErrorMessage())
	}
	var env services.PopularEnvelope
	if err := res.Decode(&env); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(env.Destinations, true)
	}
	return r.writeMarkdown(formatter.DestinationsToMarkdown("Popular destinations", env.Destinations))
}

// ExploreHistory shows the API's recent comparisons, or the local log with --local.
func (r *Runner) ExploreHistory(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("local") || cmd.Bool("clear") {
		return r.localHistory(cmd)
	}

	res, err := r.client.ComparisonHistory(ctx)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, res.ErrorMessage())
	}
	var env services.HistoryEnvelope
	if err := res.Decode(&env); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(env.History, true)
	}
	return r.writeMarkdown(formatter.HistoryToMarkdown(env.History))
}

func (r *Runner) localHistory(cmd *cli.Command) error {
	if r.comparisons == nil {
		return fmt.Errorf("%w: no local store (drop --no-store)", shared.ErrServiceUnavailable)
	}

	if cmd.Bool("clear") {
		n, err := r.comparisons.Clear()
		if err != nil {
			return err
		}
		return r.writePlain("✓ Cleared %d comparisons\n", n)
	}

	recent, err := r.comparisons.Recent(cmd.Int("limit"))
	if err != nil {
		return err
	}
	entries := make([]models.ComparisonLog, len(recent))
	for i, e := range recent {
		entries[i] = *e
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	return r.writeMarkdown(formatter.ComparisonLogToMarkdown(entries))
}

// ExploreBatch fetches highlights for many destinations with a worker pool, printing progress.
func (r *Runner) ExploreBatch(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if cmd.Bool("all") {
		names = append(names, explore.Names()...)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: name destinations or pass --all", shared.ErrMissingArgument)
	}

	workers := cmd.Int("workers")
	if workers < 1 || workers > tasks.MaxWorkers {
		return fmt.Errorf("%w: --workers must be between 1 and %d", shared.ErrInvalidFlag, tasks.MaxWorkers)
	}
	output := cmd.String("output")
	if output != "" {
		resolved, err := shared.ExpandPath(output)
		if err != nil {
			return err
		}
		output = filepath.Clean(resolved)
	}

	opts := tasks.BatchOpts{
		NumWorkers: workers,
		RateLimit:  cmd.Float("rate"),
		OutputDir:  output,
		Images:     cmd.Bool("images"),
	}

	quiet := cmd.Bool("json")
	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			if !quiet {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := r.engine.Batch(ctx, progress, names, opts)
	close(progress)
	wg.Wait()
	if result == nil {
		return err
	}

	if quiet {
		if werr := r.writeJSON(result, true); werr != nil {
			return werr
		}
	} else {
		r.writePlainln("Fetched %d/%d destinations (%d failed)", result.Succeeded, result.Total, result.Failed)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %s\n", res.Name, res.Error)
			}
		}
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
	}
	return err
}

// ExploreImage prints the placeholder image URL for a destination and can open it.
func (r *Runner) ExploreImage(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("destination")
	if name == "" {
		return fmt.Errorf("%w: destination", shared.ErrMissingArgument)
	}

	url := formatter.ImageURL(name, cmd.Int("width"), cmd.Int("height"))
	if err := r.writePlain("%s\n", url); err != nil {
		return err
	}
	if cmd.Bool("open") {
		return shared.OpenBrowser(url)
	}
	return nil
}
