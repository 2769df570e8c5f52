package ui

import (
	"errors"
	"testing"
	"time"

	"rutina/internal/catalog"
	"rutina/internal/config"
	"rutina/internal/dateutil"
	"rutina/internal/progress"
	"rutina/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// errTest is a sentinel error for message routing tests.
var errTest = errors.New("boom")

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage creates a Storage instance with a temporary directory
// and the built-in catalog.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir(), catalog.Default())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}

// createTestEngine creates a progress engine over the given storage.
func createTestEngine(store *storage.Storage) *progress.Engine {
	return progress.New(store, store.Catalog())
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// setClock pins the storage clock to a fixed YYYY-MM-DD date.
func setClock(t *testing.T, store *storage.Storage, date string) {
	t.Helper()
	ts, err := time.ParseInLocation(dateutil.Layout, date, time.Local)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	store.SetNowFunc(func() time.Time { return ts })
}

// testAppConfig returns an AppConfig with onboarding disabled so tests see
// the panes immediately.
func testAppConfig() *AppConfig {
	return &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      true,
		NarrowLayoutThreshold: 80,
	}
}
