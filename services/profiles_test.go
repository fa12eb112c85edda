package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evidence-hand/models"
	"evidence-hand/providers"
)

// seedProfileFixture baut eine kleine Welt: Snapshot, zwei Wettbewerber,
// drei Dokumente (zwei Treffer auf "guselkumab", je ein Sponsor).
func seedProfileFixture(t *testing.T, db *gorm.DB) *IngestService {
	t.Helper()
	svc := newTestIngest(t, db, OnConflictUpdate)
	mustCreateSnapshot(t, svc, "snap-1")
	mustUpsertCompetitor(t, svc.Catalog, "Pfizer", "Pfizer")
	mustUpsertCompetitor(t, svc.Catalog, "Novartis", "Novartis")

	matcher, err := svc.Catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}
	docs := []*providers.DocumentPayload{
		testPayload("PMID:1", "guselkumab in plaque psoriasis", "Pfizer Inc, New York"),
		testPayload("PMID:2", "guselkumab long-term safety", "Novartis Pharma AG, Basel"),
		testPayload("PMID:3", "an unrelated oncology study", "Pfizer Inc, New York"),
	}
	for _, doc := range docs {
		if _, _, err := svc.IngestDocument(context.Background(), "snap-1", doc, matcher); err != nil {
			t.Fatalf("failed to ingest %s: %v", doc.DocID, err)
		}
	}
	return svc
}

func createTestProfile(t *testing.T, db *gorm.DB, profiles *ProfileService, scope []string) *models.MonitoringProfile {
	t.Helper()
	catalog := NewCatalogService(db, zap.NewNop())
	mol, err := catalog.UpsertMolecule("guselkumab", []string{"guselkumab", "Tremfya"})
	if err != nil {
		t.Fatalf("failed to upsert molecule: %v", err)
	}
	profile := &models.MonitoringProfile{
		Name:       "guselkumab watch",
		MoleculeID: mol.MoleculeID,
		QueryTerms: "guselkumab",
		Frequency:  "daily",
		CreatedAt:  time.Now().UTC(),
	}
	profile.SetScopeList(scope)
	if err := profiles.CreateProfile(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

func TestEvaluateAppliesCompetitorScope(t *testing.T) {
	db := newTestDB(t)
	seedProfileFixture(t, db)
	profiles := NewProfileService(db, zap.NewNop(), nil)
	profile := createTestProfile(t, db, profiles, []string{"Pfizer"})

	docs, err := profiles.Evaluate(context.Background(), profile.ProfileID, "snap-1")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	// PMID:2 matcht die Query, liegt aber außerhalb des Scopes; PMID:3 matcht
	// die Query nicht.
	if len(docs) != 1 || docs[0].DocID != "PMID:1" {
		t.Fatalf("expected only PMID:1, got %+v", docs)
	}

	var updated models.MonitoringProfile
	if err := db.First(&updated, "profile_id = ?", profile.ProfileID).Error; err != nil {
		t.Fatalf("profile missing: %v", err)
	}
	if updated.LastSnapshotID == nil || *updated.LastSnapshotID != "snap-1" {
		t.Errorf("last_snapshot_id not advanced: %+v", updated.LastSnapshotID)
	}
}

func TestEvaluateEmptyScopeMeansNoFilter(t *testing.T) {
	db := newTestDB(t)
	seedProfileFixture(t, db)
	profiles := NewProfileService(db, zap.NewNop(), nil)
	profile := createTestProfile(t, db, profiles, nil)

	docs, err := profiles.Evaluate(context.Background(), profile.ProfileID, "snap-1")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected PMID:1 and PMID:2, got %+v", docs)
	}
}

func TestEvaluateNoMatchesStillAdvancesSnapshot(t *testing.T) {
	db := newTestDB(t)
	seedProfileFixture(t, db)
	profiles := NewProfileService(db, zap.NewNop(), nil)
	profile := createTestProfile(t, db, profiles, nil)
	if err := db.Model(&models.MonitoringProfile{}).
		Where("profile_id = ?", profile.ProfileID).
		Update("query_terms", "a term that matches nothing").Error; err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	docs, err := profiles.Evaluate(context.Background(), profile.ProfileID, "snap-1")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %+v", docs)
	}

	var updated models.MonitoringProfile
	db.First(&updated, "profile_id = ?", profile.ProfileID)
	if updated.LastSnapshotID == nil || *updated.LastSnapshotID != "snap-1" {
		t.Errorf("last_snapshot_id must advance even on empty results")
	}
}

func TestEvaluateUnknownReferences(t *testing.T) {
	db := newTestDB(t)
	seedProfileFixture(t, db)
	profiles := NewProfileService(db, zap.NewNop(), nil)
	profile := createTestProfile(t, db, profiles, nil)

	if _, err := profiles.Evaluate(context.Background(), 9999, "snap-1"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("expected ErrUnknownProfile, got %v", err)
	}
	if _, err := profiles.Evaluate(context.Background(), profile.ProfileID, "missing"); !errors.Is(err, ErrUnknownSnapshot) {
		t.Errorf("expected ErrUnknownSnapshot, got %v", err)
	}
}

func TestCreateProfileUnknownMolecule(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db, zap.NewNop(), nil)

	profile := &models.MonitoringProfile{Name: "orphan", MoleculeID: 42, QueryTerms: "x"}
	if err := profiles.CreateProfile(profile); !errors.Is(err, ErrUnknownMolecule) {
		t.Fatalf("expected ErrUnknownMolecule, got %v", err)
	}
}

func TestSetActiveUnknownProfile(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db, zap.NewNop(), nil)

	if err := profiles.SetActive(123, false); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestNewSinceReportsOnlyNewDocuments(t *testing.T) {
	db := newTestDB(t)
	// Mit Policy "skip" bleiben wiederauftauchende Dokumente im alten Snapshot
	svc := newTestIngest(t, db, OnConflictSkip)
	mustCreateSnapshot(t, svc, "snap-1")
	mustCreateSnapshot(t, svc, "snap-2")
	mustUpsertCompetitor(t, svc.Catalog, "Pfizer", "Pfizer")
	matcher, err := svc.Catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	ingest := func(snap string, doc *providers.DocumentPayload) {
		t.Helper()
		if _, _, err := svc.IngestDocument(context.Background(), snap, doc, matcher); err != nil {
			t.Fatalf("failed to ingest %s: %v", doc.DocID, err)
		}
	}
	ingest("snap-1", testPayload("PMID:10", "seen before"))
	ingest("snap-2", testPayload("PMID:10", "seen before"))
	ingest("snap-2", testPayload("PMID:11", "new with sponsor", "Pfizer Inc"))
	ingest("snap-2", testPayload("PMID:12", "new without sponsor"))

	profiles := NewProfileService(db, zap.NewNop(), nil)
	items, err := profiles.NewSince(context.Background(), "snap-1", "snap-2")
	if err != nil {
		t.Fatalf("NewSince failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 new items, got %+v", items)
	}
	byID := map[string]NewItem{}
	for _, item := range items {
		byID[item.DocID] = item
	}
	if !byID["PMID:11"].HasCompetitor {
		t.Errorf("PMID:11 should carry a competitor flag")
	}
	if byID["PMID:12"].HasCompetitor {
		t.Errorf("PMID:12 should not carry a competitor flag")
	}

	if _, err := profiles.NewSince(context.Background(), "missing", "snap-2"); !errors.Is(err, ErrUnknownSnapshot) {
		t.Errorf("expected ErrUnknownSnapshot, got %v", err)
	}
}
