package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/services"
)

var (
	ErrMissingDestination = fmt.Errorf("Please enter both destinations")
	ErrSameDestination    = fmt.Errorf("Please choose two different destinations")
	ErrNotInResult        = fmt.Errorf("itinerary can only be generated from a comparison result")
)

// Messages stored as the payload error when a request fails in transport.
const (
	CompareFailed   string = "Failed to compare destinations"
	ItineraryFailed string = "Failed to generate itinerary"
)

// State is the step of the comparison flow.
type State int

const (
	Form State = iota
	Result
	Itinerary
)

func (s State) String() string {
	switch s {
	case Result:
		return "result"
	case Itinerary:
		return "itinerary"
	default:
		return "form"
	}
}

// API is the subset of [services.Travel] the flow calls.
type API interface {
	CompareDestinations(ctx context.Context, d1, d2 string, prefs models.Preferences) (services.Result, error)
	GenerateItinerary(ctx context.Context, destination string, prefs models.Preferences) (services.Result, error)
}

// Recorder receives a summary of every completed comparison.
type Recorder interface {
	RecordComparison(entry models.ComparisonLog) error
}

// Snapshot is an immutable copy of the flow.
type Snapshot struct {
	State        State
	Loading      bool
	Generating   bool
	Destination1 string
	Destination2 string
	Preferences  models.Preferences
	Comparison   *models.Comparison
	Itinerary    *models.Itinerary
	// Raw bodies as returned by the API; nil when the payload is a transport failure sentinel.
	ComparisonRaw json.RawMessage
	ItineraryRaw  json.RawMessage
}

// Flow drives form → result → itinerary.
//
// Requests are never cancelled or discarded: a superseded call still completes and overwrites the
// stored payload if it resolves last. Each call is stamped with a sequence number for the logs.
type Flow struct {
	api      API
	recorder Recorder
	logger   *log.Logger
	seq      atomic.Uint64

	mu            sync.Mutex
	state         State
	loading       bool
	generating    bool
	d1, d2        string
	prefs         models.Preferences
	comparison    *models.Comparison
	comparisonRaw json.RawMessage
	itinerary     *models.Itinerary
	itineraryRaw  json.RawMessage
}

// Option configures a [Flow].
type Option func(*Flow)

// WithLogger sets the flow's logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithRecorder logs each completed comparison to r. Recording failures are logged and ignored.
func WithRecorder(r Recorder) Option {
	return func(f *Flow) { f.recorder = r }
}

// WithPreferences sets the preferences the form starts with. They are clamped.
func WithPreferences(p models.Preferences) Option {
	return func(f *Flow) { f.prefs = p.Clamp() }
}

// NewFlow creates a flow in the [Form] state with default preferences unless [WithPreferences] is given.
func NewFlow(api API, opts ...Option) *Flow {
	f := &Flow{
		api:    api,
		logger: log.New(io.Discard),
		prefs:  models.DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Validate applies the form's checks: both names present and not equal ignoring case.
func Validate(d1, d2 string) error {
	d1, d2 = strings.TrimSpace(d1), strings.TrimSpace(d2)
	if d1 == "" || d2 == "" {
		return ErrMissingDestination
	}
	if strings.EqualFold(d1, d2) {
		return ErrSameDestination
	}
	return nil
}

// Compare validates the destinations and, if they pass, asks the API to compare them.
//
// Validation failures return an error with no request and no state change. Otherwise the flow
// always lands in [Result]: a transport failure stores a payload whose error is [CompareFailed].
func (f *Flow) Compare(ctx context.Context, d1, d2 string, prefs models.Preferences) error {
	if err := Validate(d1, d2); err != nil {
		return err
	}
	d1, d2 = strings.TrimSpace(d1), strings.TrimSpace(d2)
	prefs = prefs.Clamp()
	seq := f.seq.Add(1)

	f.mu.Lock()
	f.loading = true
	f.comparison, f.comparisonRaw = nil, nil
	f.d1, f.d2, f.prefs = d1, d2, prefs
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()
	}()

	f.logger.Debug("compare", "seq", seq, "destination1", d1, "destination2", d2)

	comparison, raw := f.fetchComparison(ctx, seq, d1, d2, prefs)

	f.mu.Lock()
	f.comparison, f.comparisonRaw = comparison, raw
	f.state = Result
	f.mu.Unlock()

	f.record(d1, d2, *comparison)
	return nil
}

func (f *Flow) fetchComparison(ctx context.Context, seq uint64, d1, d2 string, prefs models.Preferences) (*models.Comparison, json.RawMessage) {
	res, err := f.api.CompareDestinations(ctx, d1, d2, prefs)
	if err != nil {
		f.logger.Error("comparison request failed", "seq", seq, "error", err)
		return &models.Comparison{Error: CompareFailed}, nil
	}

	var c models.Comparison
	if err := res.Decode(&c); err != nil {
		f.logger.Error("comparison response unreadable", "seq", seq, "error", err)
		return &models.Comparison{Error: CompareFailed}, nil
	}
	if !res.OK() && c.Error == "" {
		c.Error = res.ErrorMessage()
	}
	f.logger.Debug("compare done", "seq", seq, "winner", c.Recommendation.Winner, "error", c.Error)
	return &c, res.Data
}

func (f *Flow) record(d1, d2 string, c models.Comparison) {
	if f.recorder == nil {
		return
	}
	if err := f.recorder.RecordComparison(models.NewComparisonLog(d1, d2, c)); err != nil {
		f.logger.Warn("failed to record comparison", "error", err)
	}
}

// GenerateItinerary plans a trip to destination with the preferences of the last comparison.
//
// It is only valid from [Result] once the comparison has settled: while a new comparison is loading
// it returns [ErrNotInResult]. The flow always lands in [Itinerary]: a transport failure stores
// a payload whose error is [ItineraryFailed].
func (f *Flow) GenerateItinerary(ctx context.Context, destination string) error {
	f.mu.Lock()
	if f.state != Result || f.loading {
		f.mu.Unlock()
		return ErrNotInResult
	}
	f.generating = true
	prefs := f.prefs
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.generating = false
		f.mu.Unlock()
	}()

	seq := f.seq.Add(1)
	f.logger.Debug("generate itinerary", "seq", seq, "destination", destination, "days", prefs.TravelDuration)

	itinerary, raw := f.fetchItinerary(ctx, seq, destination, prefs)

	f.mu.Lock()
	f.itinerary, f.itineraryRaw = itinerary, raw
	f.state = Itinerary
	f.mu.Unlock()
	return nil
}

func (f *Flow) fetchItinerary(ctx context.Context, seq uint64, destination string, prefs models.Preferences) (*models.Itinerary, json.RawMessage) {
	res, err := f.api.GenerateItinerary(ctx, destination, prefs)
	if err != nil {
		f.logger.Error("itinerary request failed", "seq", seq, "error", err)
		return &models.Itinerary{Error: ItineraryFailed}, nil
	}

	var it models.Itinerary
	if err := res.Decode(&it); err != nil {
		f.logger.Error("itinerary response unreadable", "seq", seq, "error", err)
		return &models.Itinerary{Error: ItineraryFailed}, nil
	}
	if !res.OK() && it.Error == "" {
		it.Error = res.ErrorMessage()
	}
	return &it, res.Data
}

// BackToCompare returns to [Form] from any state and discards both payloads.
// The last destinations and preferences are kept to prefill the form.
func (f *Flow) BackToCompare() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Form
	f.comparison, f.comparisonRaw = nil, nil
	f.itinerary, f.itineraryRaw = nil, nil
}

// Snapshot returns a copy of the flow's state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		State:         f.state,
		Loading:       f.loading,
		Generating:    f.generating,
		Destination1:  f.d1,
		Destination2:  f.d2,
		Preferences:   f.prefs.Clamp(),
		ComparisonRaw: f.comparisonRaw,
		ItineraryRaw:  f.itineraryRaw,
	}
	if f.comparison != nil {
		c := *f.comparison
		snap.Comparison = &c
	}
	if f.itinerary != nil {
		it := *f.itinerary
		snap.Itinerary = &it
	}
	return snap
}

// Sequence returns the number of requests issued so far.
func (f *Flow) Sequence() uint64 {
	return f.seq.Load()
}
