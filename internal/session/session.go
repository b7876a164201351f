package session

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/services"
)

// LoginRequired is reported by wishlist mutators when no user is signed in.
const LoginRequired string = "Please login first"

// State is the session's authentication state.
type State int

const (
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// API is the subset of [services.Travel] the store calls.
type API interface {
	Me(ctx context.Context) (services.Result, error)
	Login(ctx context.Context, email, password string) (services.Result, error)
	Register(ctx context.Context, name, email, password string) (services.Result, error)
	Wishlist(ctx context.Context) (services.Result, error)
	AddToWishlist(ctx context.Context, destination models.Destination) (services.Result, error)
	RemoveFromWishlist(ctx context.Context, name string) (services.Result, error)
}

// TokenStore is the persistent auth token slot.
type TokenStore interface {
	Token() (string, bool)
	SaveToken(token string) error
	DeleteToken() error
}

// Outcome is the user-facing result of a store operation.
type Outcome struct {
	Success bool
	Error   string
}

func succeeded() Outcome { return Outcome{Success: true} }

func failed(msg string) Outcome { return Outcome{Error: msg} }

func transport(err error) Outcome { return Outcome{Error: err.Error()} }

func rejected(r services.Result) Outcome { return failed(r.ErrorMessage()) }

// Snapshot is an immutable copy of the session.
type Snapshot struct {
	State    State
	User     *models.User
	Wishlist []models.WishlistEntry
}

// Loading reports whether hydration is in progress.
func (s Snapshot) Loading() bool { return s.State == Loading }

// Store owns the signed-in user, the wishlist and the persisted token.
//
// Operations are not serialized against each other: each performs its network call first and then
// a short locked read-modify-write of the in-memory state, so overlapping calls apply in the order
// their responses arrive.
type Store struct {
	api    API
	tokens TokenStore
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    State
	user     *models.User
	wishlist []models.WishlistEntry
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used to stamp wishlist entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store in the [Loading] state. Call [Store.Init] to hydrate it.
func New(api API, tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		api:    api,
		tokens: tokens,
		logger: log.New(io.Discard),
		now:    time.Now,
		state:  Loading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init hydrates the session from the stored token.
//
// Without a token it settles at [Unauthenticated] without a network call. With one it asks the API
// for the current user; any response lacking a user, or a transport failure, discards the token.
// Failures are logged at debug level only.
func (s *Store) Init(ctx context.Context) State {
	token, ok := s.tokens.Token()
	if !ok || token == "" {
		s.mu.Lock()
		s.state = Unauthenticated
		s.mu.Unlock()
		return Unauthenticated
	}

	s.mu.Lock()
	s.state = Loading
	s.mu.Unlock()

	user, err := s.fetchUser(ctx)
	if err != nil {
		s.logger.Debug("session hydration failed", "error", err)
		if derr := s.tokens.DeleteToken(); derr != nil {
			s.logger.Warn("failed to discard token", "error", derr)
		}
		s.reset()
		return Unauthenticated
	}

	s.adopt(user, user.Wishlist)
	s.logger.Debug("session hydrated", "user", user.Name, "wishlist", len(user.Wishlist))
	return Authenticated
}

func (s *Store) fetchUser(ctx context.Context) (*models.User, error) {
	res, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}

	var env services.UserEnvelope
	if err := res.Decode(&env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("no user in response (status %d): %s", res.Status, res.Err)
	}
	return env.User, nil
}

// Login exchanges credentials for a token. A transport failure is returned as an error alongside a
// failed [Outcome]; a server rejection is only an [Outcome].
func (s *Store) Login(ctx context.Context, email, password string) (Outcome, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return transport(err), err
	}
	return s.authenticate(res, false)
}

// Register creates an account and signs in. The local wishlist starts empty whatever the server sends.
func (s *Store) Register(ctx context.Context, name, email, password string) (Outcome, error) {
	res, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return transport(err), err
	}
	return s.authenticate(res, true)
}

func (s *Store) authenticate(res services.Result, fresh bool) (Outcome, error) {
	if !res.OK() {
		return rejected(res), nil
	}

	var env services.UserEnvelope
	if err := res.Decode(&env); err != nil {
		return transport(err), err
	}
	user := env.User
	if user == nil {
		user = &models.User{}
	}

	if err := s.tokens.SaveToken(res.Token); err != nil {
		err = fmt.Errorf("failed to persist token: %w", err)
		return transport(err), err
	}

	if fresh {
		user.Wishlist = nil
	}
	s.adopt(user, user.Wishlist)
	s.logger.Info("signed in", "user", user.Name)
	return succeeded(), nil
}

// Logout discards the token and clears the session. It never calls the API.
//
// The in-memory session is cleared even when deleting the token fails.
func (s *Store) Logout() error {
	err := s.tokens.DeleteToken()
	s.reset()
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// AddToWishlist saves destination on the server and, once the server confirms with a message,
// appends it locally stamped with the current time. No deduplication is done locally.
func (s *Store) AddToWishlist(ctx context.Context, destination models.Destination) (Outcome, error) {
	if !s.Authenticated() {
		return failed(LoginRequired), nil
	}

	res, err := s.api.AddToWishlist(ctx, destination)
	if err != nil {
		return transport(err), err
	}
	if !res.OK() {
		return rejected(res), nil
	}

	entry := destination.Entry(s.now())
	s.mu.Lock()
	s.wishlist = append(s.wishlist, entry)
	s.mu.Unlock()
	return succeeded(), nil
}

// RemoveFromWishlist deletes name on the server and, on confirmation, drops every local entry with
// exactly that name.
func (s *Store) RemoveFromWishlist(ctx context.Context, name string) (Outcome, error) {
	if !s.Authenticated() {
		return failed(LoginRequired), nil
	}

	res, err := s.api.RemoveFromWishlist(ctx, name)
	if err != nil {
		return transport(err), err
	}
	if !res.OK() {
		return rejected(res), nil
	}

	s.mu.Lock()
	s.wishlist = slices.DeleteFunc(s.wishlist, func(e models.WishlistEntry) bool { return e.Name == name })
	s.mu.Unlock()
	return succeeded(), nil
}

// ToggleWishlist removes destination when it is saved and adds it otherwise.
func (s *Store) ToggleWishlist(ctx context.Context, destination models.Destination) (Outcome, error) {
	if s.IsInWishlist(destination.Name) {
		return s.RemoveFromWishlist(ctx, destination.Name)
	}
	return s.AddToWishlist(ctx, destination)
}

// RefreshWishlist replaces the local wishlist with the server's copy.
func (s *Store) RefreshWishlist(ctx context.Context) (Outcome, error) {
	if !s.Authenticated() {
		return failed(LoginRequired), nil
	}

	res, err := s.api.Wishlist(ctx)
	if err != nil {
		return transport(err), err
	}
	if !res.OK() {
		return rejected(res), nil
	}

	var env services.WishlistEnvelope
	if err := res.Decode(&env); err != nil {
		return transport(err), err
	}

	s.mu.Lock()
	s.wishlist = slices.Clone(env.Wishlist)
	s.mu.Unlock()
	return succeeded(), nil
}

// IsInWishlist reports whether an entry named exactly name is saved. The match is case-sensitive.
func (s *Store) IsInWishlist(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.wishlist, func(e models.WishlistEntry) bool { return e.Name == name })
}

// Authenticated reports whether a user is signed in.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state, Wishlist: slices.Clone(s.wishlist)}
	if s.user != nil {
		u := *s.user
		u.Wishlist = slices.Clone(s.user.Wishlist)
		snap.User = &u
	}
	if snap.Wishlist == nil {
		snap.Wishlist = []models.WishlistEntry{}
	}
	return snap
}

func (s *Store) adopt(user *models.User, wishlist []models.WishlistEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.wishlist = slices.Clone(wishlist)
	s.state = Authenticated
}

func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.wishlist = nil
	s.state = Unauthenticated
}
