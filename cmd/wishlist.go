package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/wandrix/internal/explore"
	"github.com/desertthunder/wandrix/internal/formatter"
	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/session"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// WishlistList prints the signed-in user's saved destinations.
func (r *Runner) WishlistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	entries := r.session.Snapshot().Wishlist

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	return r.writeMarkdown(formatter.WishlistToMarkdown(entries))
}

// WishlistAdd saves a destination. Names outside the catalog are saved as custom destinations.
func (r *Runner) WishlistAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("destination")
	d, ok := explore.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %q is not a destination name", shared.ErrInvalidArgument, name)
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	outcome, err := r.session.AddToWishlist(ctx, d)
	if err := wishlistErr(outcome, err); err != nil {
		return err
	}
	return r.writePlain("✓ Saved %s (%d in wishlist)\n", d.Name, len(r.session.Snapshot().Wishlist))
}

// WishlistRemove deletes a saved destination. The name is matched against the wishlist ignoring case.
func (r *Runner) WishlistRemove(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("destination"))
	if name == "" {
		return fmt.Errorf("%w: destination", shared.ErrMissingArgument)
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	saved, ok := savedName(r.session.Snapshot().Wishlist, name)
	if !ok {
		return fmt.Errorf("%w: %q is not in your wishlist", shared.ErrInvalidArgument, name)
	}

	outcome, err := r.session.RemoveFromWishlist(ctx, saved)
	if err := wishlistErr(outcome, err); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s (%d in wishlist)\n", saved, len(r.session.Snapshot().Wishlist))
}

// savedName returns the stored spelling of name.
func savedName(entries []models.WishlistEntry, name string) (string, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e.Name, true
		}
	}
	if d, ok := explore.Resolve(name); ok {
		for _, e := range entries {
			if e.Name == d.Name {
				return e.Name, true
			}
		}
	}
	return "", false
}

// WishlistExport writes the wishlist to a CSV file.
func (r *Runner) WishlistExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	entries := r.session.Snapshot().Wishlist

	path, err := formatter.WriteWishlistExport(entries, cmd.String("output"))
	if err != nil {
		return err
	}
	r.logger.Info("wishlist exported", "path", path, "entries", len(entries))
	return r.writePlain("✓ Exported %d destinations to %s\n", len(entries), path)
}

func wishlistErr(outcome session.Outcome, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !outcome.Success {
		return fmt.Errorf("%w: %s", shared.ErrRemote, outcome.Error)
	}
	return nil
}
