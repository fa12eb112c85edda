package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"evidence-hand/models"
	"evidence-hand/providers"
)

func TestRowsForSnapshotIncludesOnlySponsoredDocuments(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIngest(t, db, OnConflictUpdate)
	mustCreateSnapshot(t, svc, "snap-1")
	mustUpsertCompetitor(t, svc.Catalog, "Pfizer", "Pfizer")
	mustUpsertCompetitor(t, svc.Catalog, "Novartis", "Novartis")
	matcher, err := svc.Catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	sponsored := testPayload("PMID:20", "sponsored trial", "Pfizer Inc, New York", "Novartis Pharma AG")
	academic := testPayload("PMID:21", "academic study", "University of Oxford, UK")
	for _, doc := range []*providers.DocumentPayload{sponsored, academic} {
		if _, _, err := svc.IngestDocument(context.Background(), "snap-1", doc, matcher); err != nil {
			t.Fatalf("failed to ingest %s: %v", doc.DocID, err)
		}
	}

	export := NewExportService(db, zap.NewNop())
	rows, err := export.RowsForSnapshot("snap-1")
	if err != nil {
		t.Fatalf("RowsForSnapshot failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the sponsored document, got %+v", rows)
	}
	row := rows[0]
	if row.ArticleTitle != "sponsored trial" || row.Source != models.SourcePubMed {
		t.Errorf("unexpected row: %+v", row)
	}
	// Kanonische Namen, alphabetisch und komma-separiert
	if row.Competitors != "Novartis, Pfizer" {
		t.Errorf("expected competitors 'Novartis, Pfizer', got %q", row.Competitors)
	}

	if _, err := export.RowsForSnapshot("missing"); err == nil {
		t.Error("expected error for unknown snapshot")
	}
}

func TestLatestSnapshotID(t *testing.T) {
	db := newTestDB(t)
	export := NewExportService(db, zap.NewNop())

	id, err := export.LatestSnapshotID()
	if err != nil {
		t.Fatalf("LatestSnapshotID failed: %v", err)
	}
	if id != "" {
		t.Errorf("expected empty id without snapshots, got %q", id)
	}

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, snap := range []models.Snapshot{
		{SnapshotID: "snap-old", CreatedAt: base},
		{SnapshotID: "snap-new", CreatedAt: base.Add(time.Hour)},
	} {
		if err := db.Create(&snap).Error; err != nil {
			t.Fatalf("failed to create snapshot %d: %v", i, err)
		}
	}

	id, err = export.LatestSnapshotID()
	if err != nil {
		t.Fatalf("LatestSnapshotID failed: %v", err)
	}
	if id != "snap-new" {
		t.Errorf("expected snap-new, got %q", id)
	}
}
