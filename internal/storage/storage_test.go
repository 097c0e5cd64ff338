package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestStorage(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	t.Run("Missing", func(t *testing.T) {
		_, ok, err := s.Get(kiwipete, 3)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok {
			t.Error("Get found a result in an empty store")
		}
	})

	recorded := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := Result{FEN: kiwipete, Depth: 3, Nodes: 97862, Elapsed: 150 * time.Millisecond, RecordedAt: recorded}

	t.Run("PutGet", func(t *testing.T) {
		if err := s.Put(want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, ok, err := s.Get(kiwipete, 3)
		if err != nil || !ok {
			t.Fatalf("Get = %v, %v", ok, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("stored result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("KeyNormalisesSpacing", func(t *testing.T) {
		_, ok, err := s.Get("  r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R   w KQkq - 0 1 ", 3)
		if err != nil || !ok {
			t.Errorf("Get with extra spaces = %v, %v", ok, err)
		}
	})

	t.Run("DepthIsPartOfKey", func(t *testing.T) {
		if _, ok, _ := s.Get(kiwipete, 2); ok {
			t.Error("depth 2 answered by the depth 3 result")
		}
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		if err := s.Put(Result{FEN: kiwipete, Depth: 1, Nodes: 48}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		results, err := s.List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("List returned %d results, want 2", len(results))
		}
		if results[0].RecordedAt.IsZero() || results[1].RecordedAt.IsZero() {
			t.Error("Put did not stamp RecordedAt")
		}

		if err := s.Delete(kiwipete, 1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok, _ := s.Get(kiwipete, 1); ok {
			t.Error("result still present after Delete")
		}
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Put(Result{FEN: kiwipete, Depth: 2, Nodes: 2039}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.Get(kiwipete, 2)
	if err != nil || !ok || got.Nodes != 2039 {
		t.Errorf("after reopen Get = %+v, %v, %v", got, ok, err)
	}
}

func TestInMemory(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer s.Close()

	if err := s.Put(Result{FEN: kiwipete, Depth: 1, Nodes: 48}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, ok, err := s.Get(kiwipete, 1); err != nil || !ok || got.Nodes != 48 {
		t.Errorf("Get = %+v, %v, %v", got, ok, err)
	}
}

func TestDataPaths(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if filepath.Base(dataDir) != appName {
		t.Errorf("GetDataDir = %s, want a %s directory", dataDir, appName)
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	override := filepath.Join(t.TempDir(), "custom")
	t.Setenv("CHESSRULES_DB", override)
	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if dbDir != override {
		t.Errorf("GetDatabaseDir = %s, want %s", dbDir, override)
	}
	if _, err := os.Stat(dbDir); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}
