// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package telemetry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/sourcelink/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "telemetry", "resolutions.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	events := []Event{
		{Citation: "handbook.pdf", StrategyUsed: "sp-docs", StrategyType: "sharepoint", URL: "https://sp.example.com/handbook.pdf", RequiresAuth: true},
		{Citation: "notes.txt", StrategyUsed: types.StrategyLegacy, URL: "/content/notes.txt"},
		{Citation: "broken.pdf", StrategyUsed: types.StrategyErrorFallback, URL: "/content/broken.pdf", Error: "boom"},
	}
	for _, ev := range events {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}

	// Newest first.
	if got[0].Citation != "broken.pdf" || got[2].Citation != "handbook.pdf" {
		t.Errorf("unexpected order: %q, %q, %q", got[0].Citation, got[1].Citation, got[2].Citation)
	}
	if !got[2].RequiresAuth {
		t.Error("RequiresAuth lost on round trip")
	}
	if got[0].Error != "boom" {
		t.Errorf("Error = %q, want boom", got[0].Error)
	}
	if got[0].Time.IsZero() {
		t.Error("zero event time was not stamped")
	}
}

func TestRecentLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ev := Event{Citation: "doc.pdf", StrategyUsed: "s", URL: "/content/doc.pdf", Time: time.Now().UTC()}
		if err := store.Record(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d events, want 2", len(got))
	}
}

func TestSummarize(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	events := []Event{
		{Citation: "a.pdf", StrategyUsed: "sp-docs", URL: "u", RequiresAuth: true},
		{Citation: "b.pdf", StrategyUsed: "sp-docs", URL: "u", RequiresAuth: true},
		{Citation: "c.txt", StrategyUsed: types.StrategyFallback, URL: "u"},
		{Citation: "d.pdf", StrategyUsed: types.StrategyErrorFallback, URL: "u", Error: "pattern failure"},
	}
	for _, ev := range events {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if summary.Total != 4 {
		t.Errorf("Total = %d, want 4", summary.Total)
	}
	if summary.ByStrategy["sp-docs"] != 2 {
		t.Errorf("ByStrategy[sp-docs] = %d, want 2", summary.ByStrategy["sp-docs"])
	}
	if summary.AuthRequired != 2 {
		t.Errorf("AuthRequired = %d, want 2", summary.AuthRequired)
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
}

func TestEventFromResult(t *testing.T) {
	res := types.CitationResult{
		URL:          "https://sp.example.com/handbook.pdf",
		StrategyUsed: "sp-docs",
		RequiresAuth: true,
		Metadata: map[string]string{
			types.MetaCitation:     "handbook.pdf",
			types.MetaStrategyType: "sharepoint",
		},
	}

	ev := EventFromResult(res)
	if ev.Citation != "handbook.pdf" || ev.StrategyType != "sharepoint" {
		t.Errorf("EventFromResult = %+v", ev)
	}
	if ev.URL != res.URL || ev.StrategyUsed != res.StrategyUsed || !ev.RequiresAuth {
		t.Errorf("EventFromResult = %+v", ev)
	}
}
