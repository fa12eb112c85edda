package services

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"evidence-hand/config"
	"evidence-hand/models"
	"evidence-hand/providers"
)

// newTestDB baut eine In-Memory-SQLite-Datenbank mit dem kompletten Schema.
// _foreign_keys=on, damit die ON DELETE-Regeln wie in Postgres greifen.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.Snapshot{},
		&models.Competitor{},
		&models.CompetitorAlias{},
		&models.Molecule{},
		&models.MonitoringProfile{},
		&models.Document{},
		&models.Affiliation{},
		&models.CompetitorMention{},
		&models.Triage{},
	)
	if err != nil {
		t.Fatalf("auto-migration failed: %v", err)
	}
	return db
}

func newTestIngest(t *testing.T, db *gorm.DB, onConflict string) *IngestService {
	t.Helper()
	cfg := &config.Config{
		IngestWindowDays: 30,
		IngestOnConflict: onConflict,
	}
	catalog := NewCatalogService(db, zap.NewNop())
	return NewIngestService(cfg, db, nil, zap.NewNop(), catalog, nil)
}

func testPayload(docID, title string, affiliations ...string) *providers.DocumentPayload {
	return &providers.DocumentPayload{
		DocID:         docID,
		Source:        models.SourcePubMed,
		Title:         title,
		Abstract:      "background and results for " + title,
		URL:           "https://pubmed.ncbi.nlm.nih.gov/" + strings.TrimPrefix(docID, "PMID:") + "/",
		PublishedDate: "2025-06-15",
		Affiliations:  affiliations,
	}
}

func mustUpsertCompetitor(t *testing.T, catalog *CatalogService, name string, aliases ...string) *models.Competitor {
	t.Helper()
	comp, err := catalog.UpsertCompetitor(name, aliases)
	if err != nil {
		t.Fatalf("failed to upsert competitor %s: %v", name, err)
	}
	return comp
}

func mustCreateSnapshot(t *testing.T, svc *IngestService, snapshotID string) {
	t.Helper()
	if _, err := svc.CreateSnapshot(snapshotID, ""); err != nil {
		t.Fatalf("failed to create snapshot %s: %v", snapshotID, err)
	}
}
