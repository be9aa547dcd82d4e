package storage

import (
	"os"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "chesscore-config-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := OpenAt(dir)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MultiPV != 1 {
		t.Errorf("expected default MultiPV 1, got %d", opts.MultiPV)
	}
	if opts.DebugIndexes || opts.DebugSetsDisplay || opts.DebugUseSymbols {
		t.Error("expected all debug-display defaults false")
	}
}

func TestLoadOptionsWithoutSaveReturnsDefaults(t *testing.T) {
	store := openTestStore(t)

	opts, err := store.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.MultiPV != 1 {
		t.Errorf("expected default MultiPV 1, got %d", opts.MultiPV)
	}
}

func TestSaveAndLoadOptionsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := &Options{MultiPV: 3, DebugIndexes: true, DebugUseSymbols: true}
	if err := store.SaveOptions(want); err != nil {
		t.Fatalf("SaveOptions: %v", err)
	}

	got, err := store.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if *got != *want {
		t.Errorf("LoadOptions = %+v, want %+v", got, want)
	}
}

func TestSaveAndLoadRegistrationRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := &Registration{Name: "tester", Code: "abc123"}
	if err := store.SaveRegistration(want); err != nil {
		t.Fatalf("SaveRegistration: %v", err)
	}

	got, err := store.LoadRegistration()
	if err != nil {
		t.Fatalf("LoadRegistration: %v", err)
	}
	if *got != *want {
		t.Errorf("LoadRegistration = %+v, want %+v", got, want)
	}
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}
