package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeConfig(t, `
[editor]
tabWidth = 4
`)
	reloaded := make(chan Config, 1)
	w, err := Watch(path, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\ntabWidth = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Editor.TabWidth != 8 {
			t.Errorf("TabWidth = %d after reload, want 8", cfg.Editor.TabWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherReportsLoadErrors(t *testing.T) {
	path := writeConfig(t, `
[editor]
tabWidth = 4
`)
	errs := make(chan error, 1)
	w, err := Watch(path, nil, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errs:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error report")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editkit.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntabWidth = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan Config, 1)
	w, err := Watch(path, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
		t.Error("sibling file change must not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := writeConfig(t, "[editor]\ntabWidth = 4\n")
	w, err := Watch(path, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
