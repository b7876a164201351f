package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSettingRepository(t *testing.T) {
	t.Run("Set And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSettingRepository(db)
		if err := repo.Set("theme", "dark"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}

		value, err := repo.Get("theme")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if value != "dark" {
			t.Errorf("expected dark, got %s", value)
		}
	})

	t.Run("Set Replaces", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSettingRepository(db)
		repo.Set("theme", "dark")
		repo.Set("theme", "light")

		value, _ := repo.Get("theme")
		if value != "light" {
			t.Errorf("expected light, got %s", value)
		}

		settings, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(settings) != 1 {
			t.Errorf("expected 1 setting, got %d", len(settings))
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewSettingRepository(db).Get("missing")
		if !errors.Is(err, shared.ErrSettingNotFound) {
			t.Errorf("expected ErrSettingNotFound, got %v", err)
		}
	})

	t.Run("Empty Key Rejected", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewSettingRepository(db).Set("", "x"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSettingRepository(db)
		repo.Set("theme", "dark")

		if err := repo.Delete("theme"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get("theme"); !errors.Is(err, shared.ErrSettingNotFound) {
			t.Errorf("expected setting to be gone, got %v", err)
		}
		if err := repo.Delete("theme"); err != nil {
			t.Errorf("expected deleting a missing key to succeed, got %v", err)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSettingRepository(db)
		db.Close()

		if _, err := repo.Get("k"); err == nil || errors.Is(err, shared.ErrSettingNotFound) {
			t.Errorf("expected query error, got %v", err)
		}
		if err := repo.Set("k", "v"); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(); err == nil {
			t.Error("expected error on closed database")
		}
	})
}

func TestTokenStoreAdapter(t *testing.T) {
	t.Run("Empty Slot", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		store := NewTokenStoreAdapter(NewSettingRepository(db), nil)
		if token, ok := store.Token(); ok || token != "" {
			t.Errorf("expected no token, got %q", token)
		}
	})

	t.Run("Save Read Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSettingRepository(db)
		store := NewTokenStoreAdapter(repo, nil)

		if err := store.SaveToken("t1"); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
		if token, ok := store.Token(); !ok || token != "t1" {
			t.Errorf("expected t1, got %q (%v)", token, ok)
		}

		raw, _ := repo.Get(TokenKey)
		if raw != "t1" {
			t.Errorf("expected token under %s, got %q", TokenKey, raw)
		}

		if err := store.DeleteToken(); err != nil {
			t.Fatalf("failed to delete token: %v", err)
		}
		if _, ok := store.Token(); ok {
			t.Error("expected token to be absent after delete")
		}
	})

	t.Run("Survives Reopen", func(t *testing.T) {
		path := t.TempDir() + "/wandrix.db"

		db, err := shared.OpenStore(shared.StorageConfig{Path: path})
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		NewTokenStoreAdapter(NewSettingRepository(db), nil).SaveToken("persisted")
		db.Close()

		db, err = shared.OpenStore(shared.StorageConfig{Path: path})
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer db.Close()

		if token, _ := NewTokenStoreAdapter(NewSettingRepository(db), nil).Token(); token != "persisted" {
			t.Errorf("expected persisted token, got %q", token)
		}
	})

	t.Run("Read Failure Means No Token", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewTokenStoreAdapter(NewSettingRepository(db), nil)
		db.Close()

		if _, ok := store.Token(); ok {
			t.Error("expected no token on read failure")
		}
	})
}

func TestComparisonRepository(t *testing.T) {
	t.Run("Create Assigns ID And Time", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewComparisonRepository(db)
		entry := &models.ComparisonLog{Destination1: "Paris", Destination2: "Rome", Winner: "Rome"}

		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if entry.ID == "" || entry.CreatedAt.IsZero() {
			t.Errorf("expected id and time to be set: %+v", entry)
		}

		got, err := repo.Get(entry.ID)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.Winner != "Rome" || got.Failed {
			t.Errorf("unexpected entry: %+v", got)
		}
	})

	t.Run("Create Requires Destinations", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewComparisonRepository(db).Create(&models.ComparisonLog{Destination1: "Paris"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Duplicate ID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewComparisonRepository(db)
		repo.Create(&models.ComparisonLog{ID: "same", Destination1: "A", Destination2: "B"})

		err := repo.Create(&models.ComparisonLog{ID: "same", Destination1: "C", Destination2: "D"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Recent Orders Newest First", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewComparisonRepository(db)
		base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
		for i, pair := range [][2]string{{"Paris", "Rome"}, {"Tokyo", "Bali"}, {"Dubai", "London"}} {
			entry := models.ComparisonLog{Destination1: pair[0], Destination2: pair[1], CreatedAt: base.Add(time.Duration(i) * time.Minute)}
			if err := repo.RecordComparison(entry); err != nil {
				t.Fatalf("failed to record: %v", err)
			}
		}

		entries, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Destination1 != "Dubai" || entries[1].Destination1 != "Tokyo" {
			t.Errorf("unexpected order: %s, %s", entries[0].Destination1, entries[1].Destination1)
		}

		all, _ := repo.Recent(0)
		if len(all) != 3 {
			t.Errorf("expected 3 entries, got %d", len(all))
		}
	})

	t.Run("Failed Flag Round Trips", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewComparisonRepository(db)
		entry := models.NewComparisonLog("Paris", "Rome", models.Comparison{Error: "Failed to compare destinations"})
		repo.RecordComparison(entry)

		entries, _ := repo.Recent(1)
		if len(entries) != 1 || !entries[0].Failed {
			t.Errorf("expected failed entry, got %+v", entries)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := NewComparisonRepository(db).Get("nope"); err == nil {
			t.Error("expected error for missing comparison")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewComparisonRepository(db)
		repo.RecordComparison(models.ComparisonLog{Destination1: "A", Destination2: "B"})
		repo.RecordComparison(models.ComparisonLog{Destination1: "C", Destination2: "D"})

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 rows removed, got %d", n)
		}
	})
}
