package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/wandrix/internal/repositories"
	"github.com/desertthunder/wandrix/internal/server"
	"github.com/desertthunder/wandrix/internal/shared"
	tu "github.com/desertthunder/wandrix/internal/testing"
)

type scriptedPrompt struct {
	lines     []string
	passwords []string
	asked     []string
}

func (p *scriptedPrompt) ReadLine(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompt) ReadPassword(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if len(p.passwords) == 0 {
		return "", io.EOF
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}

type testEnv struct {
	runner *Runner
	output *bytes.Buffer
	tokens *tu.MemoryTokenStore
	prompt *scriptedPrompt
	comps  *repositories.ComparisonRepository
	dir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := httptest.NewServer(server.NewStubRouter(log.New(io.Discard),
		server.WithHashCost(bcrypt.MinCost), server.WithSecret("test-secret")))
	t.Cleanup(srv.Close)

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	config := shared.DefaultConfig()
	config.API.BaseURL = srv.URL + "/api"

	env := &testEnv{
		output: &bytes.Buffer{},
		tokens: tu.NewMemoryTokenStore(""),
		prompt: &scriptedPrompt{},
		comps:  repositories.NewComparisonRepository(db),
		dir:    t.TempDir(),
	}
	env.runner = NewRunner(RunnerOpts{
		Config:      config,
		Tokens:      env.tokens,
		Comparisons: env.comps,
		Output:      env.output,
		Logger:      log.New(io.Discard),
		Prompt:      env.prompt,
		Style:       "raw",
	})
	return env
}

// run executes the app with args, returning the output written by this call.
func (e *testEnv) run(args ...string) (string, error) {
	e.output.Reset()
	argv := append([]string{"wandrix", "--config", filepath.Join(e.dir, "config.toml")}, args...)
	err := newApp(e.runner).Run(context.Background(), argv)
	return e.output.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func (e *testEnv) signUp(t *testing.T) {
	t.Helper()
	e.mustRun(t, "auth", "register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
}

func TestAuthCommands(t *testing.T) {
	t.Run("Register Stores Token", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "auth", "register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")

		if !strings.Contains(out, "Signed in as Ann <ann@example.com>") {
			t.Errorf("unexpected output %q", out)
		}
		if _, ok := env.tokens.Token(); !ok {
			t.Error("expected token saved")
		}
	})

	t.Run("Login Prompts For Missing Values", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t)
		env.mustRun(t, "auth", "logout")

		env.prompt.lines = []string{"ann@example.com"}
		env.prompt.passwords = []string{"secret1"}
		out := env.mustRun(t, "auth", "login")

		if !strings.Contains(out, "Signed in as Ann") {
			t.Errorf("unexpected output %q", out)
		}
		if len(env.prompt.asked) != 2 || env.prompt.asked[0] != "Email: " || env.prompt.asked[1] != "Password: " {
			t.Errorf("unexpected prompts %v", env.prompt.asked)
		}
	})

	t.Run("Login Rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t)

		_, err := env.run("auth", "login", "-e", "ann@example.com", "-p", "wrong-pass")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected auth failure, got %v", err)
		}
		if !strings.Contains(err.Error(), "Invalid email or password") {
			t.Errorf("expected server message, got %v", err)
		}
	})

	t.Run("Cancelled Prompt", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run("auth", "login")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument, got %v", err)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t)

		out := env.mustRun(t, "auth", "logout")
		if !strings.Contains(out, "Signed out") {
			t.Errorf("unexpected output %q", out)
		}
		if _, ok := env.tokens.Token(); ok {
			t.Error("expected token removed")
		}
	})

	t.Run("Status Reads Claims", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "auth", "status")
		if !strings.Contains(out, "Not signed in") {
			t.Errorf("unexpected output %q", out)
		}

		env.signUp(t)
		out = env.mustRun(t, "auth", "status", "--json")

		var status TokenStatus
		if err := json.Unmarshal([]byte(out), &status); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if !status.SignedIn || status.UserID == "" || status.Expired {
			t.Errorf("unexpected status %+v", status)
		}
		if !status.ExpiresAt.After(status.IssuedAt) {
			t.Errorf("expected expiry after issue, got %+v", status)
		}
	})

	t.Run("Status Malformed Token", func(t *testing.T) {
		env := newTestEnv(t)
		env.tokens.SaveToken("not-a-jwt")

		_, err := env.run("auth", "status")
		if !errors.Is(err, shared.ErrTokenMalformed) {
			t.Errorf("expected malformed token error, got %v", err)
		}
	})

	t.Run("Me", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run("auth", "me")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected not authenticated, got %v", err)
		}

		env.signUp(t)
		out := env.mustRun(t, "auth", "me")
		if !strings.Contains(out, "ann@example.com") || !strings.Contains(out, "0 destinations") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestWishlistCommands(t *testing.T) {
	t.Run("Requires Session", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run("wishlist", "add", "Paris")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated, got %v", err)
		}
	})

	t.Run("Add List Remove", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t)

		out := env.mustRun(t, "wishlist", "add", "paris")
		if !strings.Contains(out, "Saved Paris (1 in wishlist)") {
			t.Errorf("unexpected output %q", out)
		}
		env.mustRun(t, "wishlist", "add", "atlantis")

		out = env.mustRun(t, "wishlist", "list")
		for _, want := range []string{"# Wishlist (2)", "**Paris**, France", "**Atlantis**"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}

		out = env.mustRun(t, "wishlist", "rm", "PARIS")
		if !strings.Contains(out, "Removed Paris (1 in wishlist)") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("Remove Custom Name As Typed", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t)

		env.mustRun(t, "wishlist", "add", "lisbon coast")
		out := env.mustRun(t, "wishlist", "remove", "lisbon coast")
		if !strings.Contains(out, "Removed Lisbon Coast (0 in wishlist)") {
			t.Errorf("unexpected output %q", out)
		}

		out = env.mustRun(t, "wishlist", "list", "--json")
		if strings.Contains(out, "Lisbon Coast") {
			t.Errorf("expected entry removed on the server, got %q", out)
		}
	})

	t.Run("Remove Unsaved Name", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t)
		env.mustRun(t, "wishlist", "add", "Paris")

		_, err := env.run("wishlist", "remove", "Tokyo")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
		if out := env.mustRun(t, "wishlist", "list", "--json"); !strings.Contains(out, "Paris") {
			t.Errorf("expected Paris kept, got %q", out)
		}
	})

	t.Run("Rejects Short Name", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run("wishlist", "add", "x")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("Export", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t)
		env.mustRun(t, "wishlist", "add", "Tokyo")

		path := filepath.Join(env.dir, "saved.csv")
		out := env.mustRun(t, "wishlist", "export", "-o", path)
		if !strings.Contains(out, "Exported 1 destinations") {
			t.Errorf("unexpected output %q", out)
		}
		if data := tu.MustReadFile(t, path); !strings.Contains(data, "Tokyo") {
			t.Errorf("expected Tokyo in export, got %q", data)
		}
	})
}

func TestCompareCommands(t *testing.T) {
	t.Run("Compare Renders And Records", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "compare", "Paris", "Tokyo", "--days", "5")

		for _, want := range []string{"# Paris vs Tokyo", "## Recommendation:", "/60"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}

		logs, err := env.comps.Recent(10)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		if len(logs) != 1 || logs[0].Destination1 != "Paris" || logs[0].Winner == "" {
			t.Errorf("unexpected log %+v", logs)
		}
	})

	t.Run("Same Destination", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run("compare", "Paris", " paris ")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("Invalid Preference", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run("compare", "Paris", "Tokyo", "--budget", "free")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag, got %v", err)
		}
	})

	t.Run("Invalid Itinerary Side", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run("compare", "Paris", "Tokyo", "--itinerary", "3")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag, got %v", err)
		}
	})

	t.Run("Compare Then Itinerary", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "compare", "Paris", "Tokyo", "--days", "45", "--itinerary", "2")

		if !strings.Contains(out, "# 30 days in Tokyo") {
			t.Errorf("expected clamped Tokyo itinerary in %q", out)
		}
		if !strings.Contains(out, "Itinerary ID:") {
			t.Error("expected itinerary id")
		}
	})

	t.Run("JSON Output", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "compare", "Rome", "Bali", "--json")

		var body map[string]any
		if err := json.Unmarshal([]byte(out), &body); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if _, ok := body["recommendation"]; !ok {
			t.Errorf("expected recommendation in %v", body)
		}
	})

	t.Run("Unreachable API", func(t *testing.T) {
		env := newTestEnv(t)
		env.runner.config.API.BaseURL = "http://127.0.0.1:1/api"
		env.runner.wire(env.tokens, nil)

		out, err := env.run("compare", "Paris", "Tokyo")
		if !errors.Is(err, shared.ErrRemote) {
			t.Fatalf("expected remote error, got %v", err)
		}
		if !strings.Contains(out, "Failed to compare destinations") {
			t.Errorf("expected failure payload, got %q", out)
		}
	})
}

func TestItineraryCommands(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "itinerary", "generate", "Kyoto", "-d", "2")
	if !strings.Contains(out, "# 2 days in Kyoto") {
		t.Fatalf("unexpected output %q", out)
	}

	id := regexp.MustCompile(`Itinerary ID: (\S+)`).FindStringSubmatch(out)
	if id == nil {
		t.Fatalf("no itinerary id in %q", out)
	}

	out = env.mustRun(t, "itinerary", "get", id[1])
	if !strings.Contains(out, "# 2 days in Kyoto") {
		t.Errorf("unexpected output %q", out)
	}

	_, err := env.run("itinerary", "get", "missing")
	if !errors.Is(err, shared.ErrRemote) {
		t.Errorf("expected remote error, got %v", err)
	}
}

func TestExploreCommands(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "explore", "list", "--search", "japan")
		if !strings.Contains(out, "| Tokyo | Japan |") {
			t.Errorf("unexpected output %q", out)
		}

		out = env.mustRun(t, "explore", "list", "-s", "lisbon")
		if !strings.Contains(out, "| Lisbon |") {
			t.Errorf("expected custom destination, got %q", out)
		}
	})

	t.Run("Highlights Export", func(t *testing.T) {
		env := newTestEnv(t)
		dir := filepath.Join(env.dir, "paris")
		out := env.mustRun(t, "explore", "highlights", "Paris", "-o", dir)

		if !strings.Contains(out, "Paris") || !strings.Contains(out, "Wrote") {
			t.Errorf("unexpected output %q", out)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "README.md"))
	})

	t.Run("Info And Popular", func(t *testing.T) {
		env := newTestEnv(t)
		if out := env.mustRun(t, "explore", "info", "Tokyo"); !strings.Contains(out, "Tokyo") {
			t.Errorf("unexpected info %q", out)
		}
		if out := env.mustRun(t, "explore", "popular"); !strings.Contains(out, "# Popular destinations") {
			t.Errorf("unexpected popular %q", out)
		}
	})

	t.Run("History", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustRun(t, "compare", "Paris", "Tokyo")

		if out := env.mustRun(t, "explore", "history"); !strings.Contains(out, "Paris vs Tokyo") {
			t.Errorf("unexpected remote history %q", out)
		}
		if out := env.mustRun(t, "explore", "history", "--local"); !strings.Contains(out, "Paris vs Tokyo") {
			t.Errorf("unexpected local history %q", out)
		}
		if out := env.mustRun(t, "explore", "history", "--clear"); !strings.Contains(out, "Cleared 1 comparisons") {
			t.Errorf("unexpected clear output %q", out)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "explore", "batch", "Paris", "tokyo", "PARIS", "--rate", "100", "--json")

		var result struct {
			Total     int `json:"total"`
			Succeeded int `json:"succeeded"`
		}
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if result.Total != 2 || result.Succeeded != 2 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("Batch Validates", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := env.run("explore", "batch"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument, got %v", err)
		}
		if _, err := env.run("explore", "batch", "--all", "-w", "99"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag, got %v", err)
		}
	})

	t.Run("Image", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "explore", "image", "Paris", "--width", "300", "--height", "200")
		if !strings.Contains(out, "/300/200") {
			t.Errorf("unexpected url %q", out)
		}
	})
}

func TestHealthAndAPICommands(t *testing.T) {
	env := newTestEnv(t)

	if out := env.mustRun(t, "health"); !strings.Contains(out, "healthy") {
		t.Errorf("unexpected health %q", out)
	}
	if out := env.mustRun(t, "health", "--all"); !strings.Contains(out, "Database:") {
		t.Errorf("unexpected probe %q", out)
	}
	if out := env.mustRun(t, "api", "get", "/db/status", "--json"); !strings.Contains(out, `"mode":"memory"`) {
		t.Errorf("unexpected get %q", out)
	}

	out, err := env.run("api", "post", "/compare", "--data", `{"destination1":"Paris"}`)
	if !errors.Is(err, shared.ErrRemote) {
		t.Errorf("expected remote error, got %v", err)
	}
	if !strings.Contains(out, "Missing required field") {
		t.Errorf("expected error body, got %q", out)
	}

	if _, err := env.run("api", "post", "/compare", "--data", "{"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestSetupCommands(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "config.toml")

	env.mustRun(t, "setup", "config")
	tu.AssertFileExists(t, path)
	if _, err := env.run("setup", "config"); err == nil {
		t.Error("expected error when config exists")
	}

	if out := env.mustRun(t, "setup", "config", "--show"); !strings.Contains(out, "[api]") {
		t.Errorf("unexpected config %q", out)
	}

	dbPath := filepath.Join(env.dir, "local.db")
	if err := os.WriteFile(path, []byte("[storage]\npath = \""+dbPath+"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := env.mustRun(t, "setup", "database")
	if !strings.Contains(out, "001") {
		t.Errorf("expected applied migration, got %q", out)
	}
	tu.AssertFileExists(t, dbPath)
}
