package sqlite

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/banshee-data/dataassoc/internal/testutil"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunStore(db)
}

func sampleRun() *Run {
	return &Run{
		Invariant:  "euclidean",
		N1:         10,
		N2:         15,
		Candidates: 150,
		Inliers:    10,
		OuterIters: 12,
		IFinal:     11,
		Score:      9.7,
		Precision:  1.0,
		Recall:     1.0,
		ElapsedUs:  4200,
		ParamsJSON: json.RawMessage(`{"beta":0.25}`),
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	store := newTestStore(t)

	run := sampleRun()
	testutil.AssertNoError(t, store.Insert(run))

	if run.RunID == "" {
		t.Fatal("expected generated run ID")
	}
	if run.CreatedAt == 0 {
		t.Fatal("expected generated creation timestamp")
	}

	got, err := store.Get(run.RunID)
	testutil.AssertNoError(t, err)

	if got.Invariant != run.Invariant || got.Candidates != run.Candidates {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, run)
	}
	if got.Score != run.Score || got.Precision != run.Precision || got.Recall != run.Recall {
		t.Errorf("metric round trip mismatch: got %+v", got)
	}
	if string(got.ParamsJSON) != string(run.ParamsJSON) {
		t.Errorf("params round trip mismatch: got %s, want %s", got.ParamsJSON, run.ParamsJSON)
	}
}

func TestRunStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get("no-such-run")
	testutil.AssertError(t, err)
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		run := sampleRun()
		run.CreatedAt = int64(1000 + i)
		run.OuterIters = i
		testutil.AssertNoError(t, store.Insert(run))
	}

	runs, err := store.List(10)
	testutil.AssertNoError(t, err)
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i-1].CreatedAt < runs[i].CreatedAt {
			t.Errorf("runs not ordered newest first at %d", i)
		}
	}
}

func TestRunStore_ListLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		run := sampleRun()
		run.CreatedAt = int64(1000 + i)
		testutil.AssertNoError(t, store.Insert(run))
	}

	runs, err := store.List(2)
	testutil.AssertNoError(t, err)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}

func TestRunStore_NilParamsJSON(t *testing.T) {
	store := newTestStore(t)

	run := sampleRun()
	run.ParamsJSON = nil
	testutil.AssertNoError(t, store.Insert(run))

	got, err := store.Get(run.RunID)
	testutil.AssertNoError(t, err)
	if len(got.ParamsJSON) != 0 {
		t.Errorf("expected empty params, got %s", got.ParamsJSON)
	}
}
