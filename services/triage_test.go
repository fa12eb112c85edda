package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evidence-hand/models"
)

func seedTriageDoc(t *testing.T, db *gorm.DB) *IngestService {
	t.Helper()
	svc := newTestIngest(t, db, OnConflictUpdate)
	mustCreateSnapshot(t, svc, "snap-1")
	matcher, err := svc.Catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}
	if _, _, err := svc.IngestDocument(context.Background(), "snap-1", testPayload("PMID:900", "triage target"), matcher); err != nil {
		t.Fatalf("failed to ingest: %v", err)
	}
	return svc
}

func TestSetTriageIsAnUpsert(t *testing.T) {
	db := newTestDB(t)
	seedTriageDoc(t, db)
	triage := NewTriageService(db, zap.NewNop())

	first, err := triage.SetTriage("PMID:900", nil, models.TriageFlagged, "looks relevant")
	if err != nil {
		t.Fatalf("first SetTriage failed: %v", err)
	}
	if first.ReviewedAt == nil {
		t.Fatal("reviewed_at must be set on write")
	}

	time.Sleep(10 * time.Millisecond)
	second, err := triage.SetTriage("PMID:900", nil, models.TriageIgnored, "false alarm")
	if err != nil {
		t.Fatalf("second SetTriage failed: %v", err)
	}

	// Revision überschreibt denselben Datensatz, kein zweiter entsteht
	if second.TriageID != first.TriageID {
		t.Errorf("expected same triage row, got ids %d and %d", first.TriageID, second.TriageID)
	}
	if second.Status != models.TriageIgnored || second.Notes != "false alarm" {
		t.Errorf("revision not applied: %+v", second)
	}
	if !second.ReviewedAt.After(*first.ReviewedAt) {
		t.Errorf("reviewed_at must advance on revision")
	}

	var count int64
	db.Model(&models.Triage{}).Where("doc_id = ?", "PMID:900").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 triage row, got %d", count)
	}
}

func TestSetTriageSeparatesProfiles(t *testing.T) {
	db := newTestDB(t)
	seedTriageDoc(t, db)
	triage := NewTriageService(db, zap.NewNop())
	profiles := NewProfileService(db, zap.NewNop(), nil)
	profile := createTestProfile(t, db, profiles, nil)

	if _, err := triage.SetTriage("PMID:900", nil, models.TriageFlagged, ""); err != nil {
		t.Fatalf("profile-free triage failed: %v", err)
	}
	if _, err := triage.SetTriage("PMID:900", &profile.ProfileID, models.TriageIgnored, ""); err != nil {
		t.Fatalf("profile-bound triage failed: %v", err)
	}

	records, err := triage.ForDocument("PMID:900")
	if err != nil {
		t.Fatalf("ForDocument failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected separate rows per profile context, got %d", len(records))
	}
}

func TestSetTriageValidation(t *testing.T) {
	db := newTestDB(t)
	seedTriageDoc(t, db)
	triage := NewTriageService(db, zap.NewNop())

	if _, err := triage.SetTriage("PMID:900", nil, "archived", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := triage.SetTriage("PMID:999", nil, models.TriageFlagged, ""); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("expected ErrUnknownDocument, got %v", err)
	}
	missing := uint(4711)
	if _, err := triage.SetTriage("PMID:900", &missing, models.TriageFlagged, ""); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestTriageNullProfileUniqueAtDatabaseLevel(t *testing.T) {
	db := newTestDB(t)
	seedTriageDoc(t, db)

	// Direkte Inserts am Service vorbei: der partielle Unique-Index muss die
	// zweite profil-freie Zeile für dasselbe Dokument ablehnen.
	first := models.Triage{DocID: "PMID:900", Status: models.TriageFlagged}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	second := models.Triage{DocID: "PMID:900", Status: models.TriageIgnored}
	if err := db.Create(&second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate-key error for second NULL-profile row, got %v", err)
	}

	var count int64
	db.Model(&models.Triage{}).Where("doc_id = ? AND profile_id IS NULL", "PMID:900").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 NULL-profile row, got %d", count)
	}

	// Profilgebundene Zeilen bleiben davon unberührt
	profiles := NewProfileService(db, zap.NewNop(), nil)
	profile := createTestProfile(t, db, profiles, nil)
	bound := models.Triage{DocID: "PMID:900", ProfileID: &profile.ProfileID, Status: models.TriageFlagged}
	if err := db.Create(&bound).Error; err != nil {
		t.Fatalf("profile-bound insert must not collide with the partial index: %v", err)
	}
}

func TestProfileDeleteDetachesTriage(t *testing.T) {
	db := newTestDB(t)
	seedTriageDoc(t, db)
	triage := NewTriageService(db, zap.NewNop())
	profiles := NewProfileService(db, zap.NewNop(), nil)
	profile := createTestProfile(t, db, profiles, nil)

	record, err := triage.SetTriage("PMID:900", &profile.ProfileID, models.TriageFlagged, "keep me")
	if err != nil {
		t.Fatalf("SetTriage failed: %v", err)
	}

	if err := db.Delete(&models.MonitoringProfile{}, profile.ProfileID).Error; err != nil {
		t.Fatalf("profile delete failed: %v", err)
	}

	// ON DELETE SET NULL: die Review-Historie überlebt das Profil
	var survived models.Triage
	if err := db.First(&survived, "triage_id = ?", record.TriageID).Error; err != nil {
		t.Fatalf("triage row lost on profile delete: %v", err)
	}
	if survived.ProfileID != nil {
		t.Errorf("expected profile_id NULL after profile delete, got %v", *survived.ProfileID)
	}
	if survived.Status != models.TriageFlagged || survived.Notes != "keep me" {
		t.Errorf("triage content changed: %+v", survived)
	}
}
