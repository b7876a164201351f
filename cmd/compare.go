package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/wandrix/internal/formatter"
	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// configuredPreferences applies the [preferences] config section over the defaults.
func (r *Runner) configuredPreferences() models.Preferences {
	prefs := models.DefaultPreferences()
	conf := r.config.Preferences
	if conf.Budget != "" {
		prefs.Budget = conf.Budget
	}
	if conf.TravelDuration != 0 {
		prefs.TravelDuration = conf.TravelDuration
	}
	if len(conf.Interests) > 0 {
		prefs.Interests = append([]string(nil), conf.Interests...)
	}
	if conf.Season != "" {
		prefs.Season = conf.Season
	}
	if conf.TravelType != "" {
		prefs.TravelType = conf.TravelType
	}
	return prefs.Clamp()
}

// preferences starts from the configured defaults and applies any preference flags.
//
// The trip length is clamped to the supported range before validation.
func (r *Runner) preferences(cmd *cli.Command) (models.Preferences, error) {
	prefs := r.configuredPreferences()

	if cmd.IsSet("budget") {
		prefs.Budget = cmd.String("budget")
	}
	if cmd.IsSet("days") {
		prefs.TravelDuration = cmd.Int("days")
	}
	if cmd.IsSet("interest") {
		prefs.Interests = cmd.StringSlice("interest")
	}
	if cmd.IsSet("season") {
		prefs.Season = cmd.String("season")
	}
	if cmd.IsSet("type") {
		prefs.TravelType = cmd.String("type")
	}

	prefs = prefs.Clamp()
	if err := prefs.Validate(); err != nil {
		return prefs, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return prefs, nil
}

// Compare scores two destinations and optionally plans a trip to one of them.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	d1, d2 := cmd.StringArg("destination1"), cmd.StringArg("destination2")
	side := cmd.Int("itinerary")
	if side != 0 && side != 1 && side != 2 {
		return fmt.Errorf("%w: --itinerary must be 1 or 2", shared.ErrInvalidFlag)
	}

	prefs, err := r.preferences(cmd)
	if err != nil {
		return err
	}

	if err := r.flow.Compare(ctx, d1, d2, prefs); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	snap := r.flow.Snapshot()
	comparison := snap.Comparison

	if cmd.Bool("json") {
		if err := r.writeRaw(snap.ComparisonRaw, comparison); err != nil {
			return err
		}
	} else if err := r.writeMarkdown(formatter.ComparisonToMarkdown(*comparison)); err != nil {
		return err
	}

	if comparison.Failed() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, comparison.Error)
	}
	if side == 0 {
		return nil
	}

	destination := snap.Destination1
	if side == 2 {
		destination = snap.Destination2
	}
	if a, ok := comparison.Side(side); ok && a.Name != "" {
		destination = a.Name
	}

	if err := r.flow.GenerateItinerary(ctx, destination); err != nil {
		return err
	}
	snap = r.flow.Snapshot()
	return r.writeItinerary(cmd, snap.ItineraryRaw, snap.Itinerary)
}

// ItineraryGenerate plans a trip to a single destination.
func (r *Runner) ItineraryGenerate(ctx context.Context, cmd *cli.Command) error {
	destination := cmd.StringArg("destination")
	if destination == "" {
		return fmt.Errorf("%w: destination", shared.ErrMissingArgument)
	}
	prefs, err := r.preferences(cmd)
	if err != nil {
		return err
	}

	res, err := r.client.GenerateItinerary(ctx, destination, prefs)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, res.ErrorMessage())
	}

	var it models.Itinerary
	if err := res.Decode(&it); err != nil {
		return err
	}
	return r.writeItinerary(cmd, res.Data, &it)
}

// ItineraryGet fetches a stored itinerary.
func (r *Runner) ItineraryGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	res, err := r.client.Itinerary(ctx, id)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, res.ErrorMessage())
	}

	var rec models.ItineraryRecord
	if err := res.Decode(&rec); err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeRaw(res.Data, rec)
	}
	return r.writeMarkdown(formatter.ItineraryToMarkdown(rec.Itinerary))
}

func (r *Runner) writeItinerary(cmd *cli.Command, raw []byte, it *models.Itinerary) error {
	if it == nil {
		return errors.New("no itinerary returned")
	}
	if cmd.Bool("json") {
		if err := r.writeRaw(raw, it); err != nil {
			return err
		}
	} else {
		if err := r.writeMarkdown(formatter.ItineraryToMarkdown(*it)); err != nil {
			return err
		}
		if it.ItineraryID != "" {
			r.writePlain("Itinerary ID: %s\n", it.ItineraryID)
		}
	}

	if it.Failed() {
		return fmt.Errorf("%w: %s", shared.ErrRemote, it.Error)
	}
	return nil
}

// writeRaw prints the API body as received, falling back to v when there is none.
func (r *Runner) writeRaw(raw []byte, v any) error {
	if len(raw) == 0 {
		return r.writeJSON(v, true)
	}
	return r.writeJSON(json.RawMessage(raw), true)
}
