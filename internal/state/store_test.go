package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/roomlog/internal/roomlog"
)

const sampleLog = `{"RoomID":"r1","ParticipantID":"p1","DisplayName":"Ann","Message":"joined","Time":"2024-01-01T00:00:02Z"}
{"RoomID":"r1","ParticipantID":"p1","DisplayName":"Ann","Message":"left","Time":"2024-01-01T00:00:01Z"}
`

func TestStore_LoadCommitsSnapshot(t *testing.T) {
	var s Store

	before := time.Now()
	if err := s.Load("a.jsonl", []byte(sampleLog), roomlog.ParseOptions{}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	snap := s.Snapshot()
	if !snap.HasIndex || snap.Index.Len() != 1 || snap.Records != 2 {
		t.Fatalf("snapshot = %#v, want one room with two records", snap)
	}
	if snap.Source != "a.jsonl" || snap.Generation != 1 {
		t.Fatalf("Source/Generation = %q/%d, want a.jsonl/1", snap.Source, snap.Generation)
	}
	if snap.LoadedAt.Before(before) {
		t.Fatalf("LoadedAt = %v, want >= %v", snap.LoadedAt, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_FailedLoadKeepsPreviousIndex(t *testing.T) {
	var s Store

	if err := s.Load("a.jsonl", []byte(sampleLog), roomlog.ParseOptions{}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	prev := s.Snapshot()

	err := s.Load("b.jsonl", []byte("{\"RoomID\":\"r9\",\"Time\":\"2024-01-01T00:00:00Z\"}\nnot-json\n"), roomlog.ParseOptions{})
	var perr *roomlog.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Fatalf("Load error = %v, want ParseError on line 2", err)
	}

	snap := s.Snapshot()
	if snap.Index != prev.Index || snap.Source != "a.jsonl" || snap.Generation != prev.Generation {
		t.Fatalf("failed load changed committed state: %#v", snap)
	}
	if _, ok := snap.Index.Room(roomlog.StringID("r9")); ok {
		t.Fatal("room from failed load is visible")
	}
	if snap.LastError == nil || !errors.As(snap.LastError, &perr) {
		t.Fatalf("LastError = %v, want wrapped ParseError", snap.LastError)
	}
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}

	// A later success clears the error.
	if err := s.Load("a.jsonl", []byte(sampleLog), roomlog.ParseOptions{}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap = s.Snapshot()
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 || snap.Generation != 2 {
		t.Fatalf("snapshot after recovery = %#v", snap)
	}
}

func TestStore_FailedFirstLoadHasNoIndex(t *testing.T) {
	var s Store
	if err := s.Load("x", []byte("nope"), roomlog.ParseOptions{}); err == nil {
		t.Fatal("Load returned nil error")
	}
	snap := s.Snapshot()
	if snap.HasIndex || snap.Index != nil || snap.Generation != 0 {
		t.Fatalf("snapshot = %#v, want no index", snap)
	}
}

func TestStore_ReloadReplacesIndex(t *testing.T) {
	var s Store

	if err := s.Load("a", []byte(sampleLog), roomlog.ParseOptions{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := s.Snapshot().Index
	if err := s.Load("a", []byte(`{"RoomID":"r2","Time":"2024-01-01T00:00:00Z"}`), roomlog.ParseOptions{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	second := s.Snapshot().Index
	if second == first {
		t.Fatal("reload reused the previous index")
	}
	if _, ok := second.Room(roomlog.StringID("r1")); ok {
		t.Fatal("room r1 leaked into the new index")
	}
}

func TestStore_EmptyFileIsValid(t *testing.T) {
	var s Store
	if err := s.Load("empty", []byte("\n \n"), roomlog.ParseOptions{}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := s.Snapshot()
	if !snap.HasIndex || snap.Index.Len() != 0 || snap.Records != 0 {
		t.Fatalf("snapshot = %#v, want empty index", snap)
	}
}

func TestStore_LenientRecordsSkippedAndProblems(t *testing.T) {
	var s Store
	input := "garbage\n{\"ParticipantID\":1,\"Time\":\"x\"}\n"
	if err := s.Load("l", []byte(input), roomlog.ParseOptions{Lenient: true}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Skipped) != 1 || snap.Skipped[0].Line != 1 {
		t.Fatalf("Skipped = %v, want line 1", snap.Skipped)
	}
	if len(snap.Problems) != 2 {
		t.Fatalf("Problems = %v, want missing room and bad time", snap.Problems)
	}

	// Returned slices are copies.
	snap.Skipped[0] = nil
	if again := s.Snapshot(); again.Skipped[0] == nil {
		t.Fatal("Snapshot should clone Skipped")
	}
}

func TestStore_SnapshotClonesError(t *testing.T) {
	var s Store
	origErr := errors.New("boom")
	s.Update("x", nil, roomlog.Result{}, origErr)

	snap := s.Snapshot()
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}
