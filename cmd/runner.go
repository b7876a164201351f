package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wandrix/internal/compare"
	"github.com/desertthunder/wandrix/internal/formatter"
	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/repositories"
	"github.com/desertthunder/wandrix/internal/services"
	"github.com/desertthunder/wandrix/internal/session"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/desertthunder/wandrix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ComparisonStore is the local comparison log.
type ComparisonStore interface {
	compare.Recorder
	Recent(limit int) ([]*models.ComparisonLog, error)
	Clear() (int64, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	api         *services.APIService
	client      *services.TravelClient
	tokens      session.TokenStore
	session     *session.Store
	flow        *compare.Flow
	comparisons ComparisonStore
	engine      *tasks.HighlightsEngine
	db          *sql.DB
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	prompt      Prompter
	style       string
}

// RunnerOpts contains configuration options for creating a Runner.
//
// When Tokens is set the Runner is wired immediately and never opens the local database.
type RunnerOpts struct {
	Config      *shared.Config
	Tokens      session.TokenStore
	Comparisons ComparisonStore
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	Prompt      Prompter
	// Glamour style for rendered output; "raw" prints markdown as-is, empty detects the terminal.
	Style string
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Prompt == nil {
		opts.Prompt = newReadlinePrompter()
	}

	r := &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		prompt:     opts.Prompt,
		style:      opts.Style,
	}
	if opts.Tokens != nil {
		r.wire(opts.Tokens, opts.Comparisons)
	}
	return r
}

// wire builds the API client and the stores that share it.
func (r *Runner) wire(tokens session.TokenStore, comparisons ComparisonStore) {
	r.tokens = tokens
	r.comparisons = comparisons
	r.api = services.NewAPIService(r.config.API.BaseURL, r.httpClient, tokens)
	r.api.SetLogger(r.logger)
	r.client = services.NewTravelClient(r.api)
	r.rebuild()
}

func (r *Runner) rebuild() {
	r.session = session.New(r.client, r.tokens, session.WithLogger(r.logger))

	prefs := r.configuredPreferences()
	if err := prefs.Validate(); err != nil {
		r.logger.Warn("ignoring invalid [preferences] config", "error", err)
		prefs = models.DefaultPreferences()
	}
	opts := []compare.Option{compare.WithLogger(r.logger), compare.WithPreferences(prefs)}
	if r.comparisons != nil {
		opts = append(opts, compare.WithRecorder(r.comparisons))
	}
	r.flow = compare.NewFlow(r.client, opts...)
	r.engine = tasks.NewHighlightsEngine(r.client, r.logger)
}

// SetLogger replaces the logger used by the runner and everything it wired.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.api != nil {
		r.api.SetLogger(logger)
		r.rebuild()
	}
}

// Bootstrap loads configuration and applies the log level. It runs before every command.
func (r *Runner) Bootstrap(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.configPath = path

	level := shared.ParseLogLevel(config.Log.Level)
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if style := cmd.String("style"); style != "" {
		r.style = style
	}
	if r.httpClient == http.DefaultClient {
		r.httpClient = &http.Client{Timeout: config.API.Timeout()}
	}
	return ctx, nil
}

// Connect opens the local store and wires the API client. Commands that talk to the API run it first.
func (r *Runner) Connect(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.client != nil {
		return ctx, nil
	}
	if cmd.Bool("no-store") {
		r.wire(&memoryTokens{}, nil)
		return ctx, nil
	}

	db, err := shared.OpenStore(r.config.Storage)
	if err != nil {
		return ctx, fmt.Errorf("failed to open local store: %w", err)
	}
	r.db = db

	tokens := repositories.NewTokenStoreAdapter(repositories.NewSettingRepository(db), r.logger)
	r.wire(tokens, repositories.NewComparisonRepository(db))
	r.logger.Debug("connected", "api", r.api.BaseURL(), "store", r.config.Storage.Path)
	return ctx, nil
}

// Close releases the local store when one was opened.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, healthCommand, authCommand, wishlistCommand, compareCommand, itineraryCommand,
		exploreCommand, apiCommand, stubCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeMarkdown renders md with glamour unless the style is "raw".
func (r *Runner) writeMarkdown(md []byte) error {
	var text string
	switch r.style {
	case "raw":
		text = string(md)
	case "":
		text = formatter.Render(string(md), 0)
	default:
		text = formatter.RenderStyle(string(md), 0, r.style)
	}
	return r.writePlain("%s\n", text)
}

// memoryTokens holds a token for the life of the process.
type memoryTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memoryTokens) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *memoryTokens) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memoryTokens) DeleteToken() error {
	return m.SaveToken("")
}
