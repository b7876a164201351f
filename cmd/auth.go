package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/wandrix/internal/session"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v3"
)

// TokenStatus describes the stored token as read locally.
type TokenStatus struct {
	SignedIn  bool      `json:"signed_in"`
	UserID    string    `json:"user_id,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitzero"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Expired   bool      `json:"expired"`
}

// AuthLogin signs in and stores the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email, err := r.flagOrPrompt(cmd.String("email"), "Email", false)
	if err != nil {
		return err
	}
	password, err := r.flagOrPrompt(cmd.String("password"), "Password", true)
	if err != nil {
		return err
	}

	outcome, err := r.session.Login(ctx, email, password)
	if err := authErr(outcome, err); err != nil {
		return err
	}
	return r.writeSignedIn()
}

// AuthRegister creates an account and stores its token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name, err := r.flagOrPrompt(cmd.String("name"), "Name", false)
	if err != nil {
		return err
	}
	email, err := r.flagOrPrompt(cmd.String("email"), "Email", false)
	if err != nil {
		return err
	}
	password, err := r.flagOrPrompt(cmd.String("password"), "Password", true)
	if err != nil {
		return err
	}

	outcome, err := r.session.Register(ctx, name, email, password)
	if err := authErr(outcome, err); err != nil {
		return err
	}
	return r.writeSignedIn()
}

func authErr(outcome session.Outcome, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !outcome.Success {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, outcome.Error)
	}
	return nil
}

func (r *Runner) writeSignedIn() error {
	snap := r.session.Snapshot()
	if snap.User == nil {
		return r.writePlain("✓ Signed in\n")
	}
	return r.writePlain("✓ Signed in as %s <%s>\n", snap.User.Name, snap.User.Email)
}

// AuthLogout forgets the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus decodes the stored token without verifying its signature; the API is not contacted.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status, err := r.tokenStatus()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}
	if !status.SignedIn {
		return r.writePlain("Not signed in. Run `wandrix auth login`.\n")
	}

	r.writePlainHeader("Session")
	r.writePlain("User ID:  %s\n", status.UserID)
	if !status.IssuedAt.IsZero() {
		r.writePlain("Issued:   %s\n", status.IssuedAt.Format(time.RFC1123))
	}
	if !status.ExpiresAt.IsZero() {
		r.writePlain("Expires:  %s\n", status.ExpiresAt.Format(time.RFC1123))
	}
	if status.Expired {
		r.writePlain("⚠ Token expired. Run `wandrix auth login`.\n")
	}
	return nil
}

func (r *Runner) tokenStatus() (TokenStatus, error) {
	token, ok := r.tokens.Token()
	if !ok {
		return TokenStatus{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenStatus{}, fmt.Errorf("%w: %v", shared.ErrTokenMalformed, err)
	}

	status := TokenStatus{SignedIn: true}
	switch id := claims["user_id"].(type) {
	case string:
		status.UserID = id
	case float64:
		status.UserID = fmt.Sprintf("%.0f", id)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		status.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		status.ExpiresAt = exp.Time
		status.Expired = time.Now().After(exp.Time)
	}
	return status, nil
}

// AuthMe hydrates the session from the API and prints the user.
func (r *Runner) AuthMe(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	snap := r.session.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(snap.User, true)
	}

	r.writePlainHeader(snap.User.Name)
	r.writePlain("Email:     %s\n", snap.User.Email)
	r.writePlain("ID:        %s\n", snap.User.ID)
	r.writePlain("Wishlist:  %d destinations\n", len(snap.Wishlist))
	return nil
}

// requireSession hydrates the session and fails unless a user is signed in.
func (r *Runner) requireSession(ctx context.Context) error {
	if r.session.Init(ctx) != session.Authenticated {
		return fmt.Errorf("%w: run `wandrix auth login` first", shared.ErrNotAuthenticated)
	}
	return nil
}
