package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evidence-hand/config"
	"evidence-hand/models"
	"evidence-hand/providers"
	"evidence-hand/storage"
)

// Konflikt-Policies für doc_id-Kollisionen über Snapshots hinweg.
const (
	OnConflictSkip   = "skip"
	OnConflictUpdate = "update"
	OnConflictReject = "reject"
)

// IngestService kümmert sich um Snapshot-Lebenszyklus und die Orchestrierung
// des gesamten Ingest-Prozesses: Sources abfragen, Dokumente transaktional
// speichern, Mentions taggen.
type IngestService struct {
	Config   *config.Config
	DB       *gorm.DB
	S3Client *s3.Client
	Logger   *zap.Logger
	Catalog  *CatalogService
	Sources  []providers.Source
}

// NewIngestService erstellt eine neue Instanz des IngestService.
func NewIngestService(cfg *config.Config, db *gorm.DB, s3Client *s3.Client, logger *zap.Logger, catalog *CatalogService, sources []providers.Source) *IngestService {
	return &IngestService{
		Config:   cfg,
		DB:       db,
		S3Client: s3Client,
		Logger:   logger,
		Catalog:  catalog,
		Sources:  sources,
	}
}

// IngestResult fasst einen Ingest-Lauf zusammen.
type IngestResult struct {
	SnapshotID   string `json:"snapshot_id"`
	NewDocuments int    `json:"new_documents"`
	Skipped      int    `json:"skipped"`
	Mentions     int    `json:"mentions"`
}

// CreateSnapshot legt einen neuen Snapshot an. Wiederverwendung einer
// snapshot_id ist ein Fehler (ErrDuplicateSnapshot).
func (s *IngestService) CreateSnapshot(snapshotID, notes string) (*models.Snapshot, error) {
	snap := models.Snapshot{SnapshotID: snapshotID, CreatedAt: time.Now().UTC(), Notes: notes}
	if err := s.DB.Create(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSnapshot, snapshotID)
		}
		return nil, err
	}
	return &snap, nil
}

// EnsureSnapshot legt den Snapshot an, falls er nicht existiert, und generiert
// bei leerer ID ein UTC-Zeitstempel-Token.
func (s *IngestService) EnsureSnapshot(snapshotID, notes string) (string, error) {
	if snapshotID == "" {
		snapshotID = time.Now().UTC().Format("2006-01-02T15-04-05Z")
	}
	snap := models.Snapshot{SnapshotID: snapshotID, CreatedAt: time.Now().UTC(), Notes: notes}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&snap).Error; err != nil {
		return "", err
	}
	return snapshotID, nil
}

// DeleteSnapshot entfernt einen Snapshot; Dokumente samt Affiliations,
// Mentions und Triage hängen per ON DELETE CASCADE daran.
func (s *IngestService) DeleteSnapshot(snapshotID string) error {
	res := s.DB.Delete(&models.Snapshot{SnapshotID: snapshotID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshotID)
	}
	return nil
}

// IngestDocument speichert ein Dokument samt Affiliations und gematchten
// Mentions als eine Transaktion, damit nie Mentions ohne ihr Quell-Dokument
// zurückbleiben. Gibt die Zahl neu eingefügter Mentions zurück und ob das
// Dokument neu aufgenommen wurde (false bei Policy "skip").
func (s *IngestService) IngestDocument(ctx context.Context, snapshotID string, payload *providers.DocumentPayload, matcher *Matcher) (int, bool, error) {
	var snap models.Snapshot
	if err := s.DB.First(&snap, "snapshot_id = ?", snapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshotID)
		}
		return 0, false, err
	}

	// Globale doc_id-Eindeutigkeit: Policy entscheidet, was bei Wiederauftauchen
	// in einem späteren Snapshot passiert.
	var existing models.Document
	err := s.DB.First(&existing, "doc_id = ?", payload.DocID).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}
	if exists {
		switch s.Config.IngestOnConflict {
		case OnConflictSkip:
			s.Logger.Debug("Dokument bereits vorhanden, übersprungen",
				zap.String("doc_id", payload.DocID), zap.String("held_by", existing.SnapshotID))
			return 0, false, nil
		case OnConflictReject:
			return 0, false, &DuplicateDocumentError{DocID: payload.DocID, SnapshotID: existing.SnapshotID}
		case OnConflictUpdate:
			// fällt durch: Dokument wird unten überschrieben und in den neuen Snapshot verschoben
		default:
			return 0, false, fmt.Errorf("unknown ingest conflict policy: %q", s.Config.IngestOnConflict)
		}
	}

	doc := models.Document{
		DocID:           payload.DocID,
		Source:          payload.Source,
		SnapshotID:      snapshotID,
		Title:           payload.Title,
		Abstract:        payload.Abstract,
		URL:             payload.URL,
		PublishedDate:   payload.PublishedDate,
		EpubDate:        payload.EpubDate,
		EntryDate:       time.Now().UTC(),
		PublicationType: payload.PublicationType,
	}
	if payload.LastUpdated != "" {
		if t, err := time.Parse("2006-01-02", payload.LastUpdated); err == nil {
			doc.LastUpdated = &t
		}
	}

	// Raw-JSON-Provenance nach S3, best effort: ein Upload-Fehler stoppt den
	// Ingest nicht, raw_json_path bleibt dann leer.
	if s.S3Client != nil && len(payload.Raw) > 0 {
		key := fmt.Sprintf("raw/%s/%s/%s.json", snapshotID, payload.Source, payload.DocID)
		link, err := storage.UploadRawJSON(ctx, s.S3Client, s.Config, key, payload.Raw)
		if err != nil {
			s.Logger.Warn("Raw-JSON-Upload fehlgeschlagen", zap.String("doc_id", payload.DocID), zap.Error(err))
		} else {
			doc.RawJSONPath = link
		}
	}

	mentions := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if exists {
			// Affiliations und Mentions werden komplett ersetzt (delete + insert);
			// Triage-Historie bleibt am Dokument erhalten.
			if err := tx.Where("doc_id = ?", doc.DocID).Delete(&models.Affiliation{}).Error; err != nil {
				return err
			}
			if err := tx.Where("doc_id = ?", doc.DocID).Delete(&models.CompetitorMention{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Document{}).Where("doc_id = ?", doc.DocID).
				Updates(map[string]any{
					"source":           doc.Source,
					"snapshot_id":      doc.SnapshotID,
					"title":            doc.Title,
					"abstract":         doc.Abstract,
					"url":              doc.URL,
					"published_date":   doc.PublishedDate,
					"epub_date":        doc.EpubDate,
					"entry_date":       doc.EntryDate,
					"last_updated":     doc.LastUpdated,
					"publication_type": doc.PublicationType,
					"raw_json_path":    doc.RawJSONPath,
				}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}

		for _, aff := range payload.Affiliations {
			row := models.Affiliation{DocID: doc.DocID, AffiliationText: aff}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}

			for _, match := range matcher.Match(aff) {
				mention := models.CompetitorMention{
					DocID:        doc.DocID,
					CompetitorID: match.CompetitorID,
					MatchText:    match.Alias,
					MentionType:  models.MentionTypeAffiliation,
				}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mention)
				if res.Error != nil {
					return res.Error
				}
				mentions += int(res.RowsAffected)
			}
		}
		return nil
	})
	if err != nil {
		// Check-then-create kann das Rennen gegen einen parallelen Lauf
		// verlieren; auch dann wird der haltende Snapshot benannt.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var holder models.Document
			if ferr := s.DB.Select("snapshot_id").First(&holder, "doc_id = ?", payload.DocID).Error; ferr == nil {
				return 0, false, &DuplicateDocumentError{DocID: payload.DocID, SnapshotID: holder.SnapshotID}
			}
		}
		return 0, false, err
	}
	return mentions, true, nil
}

// RunProfile führt einen kompletten Ingest-Lauf für ein aktives Profil aus:
// Snapshot sicherstellen, alle Sources mit den Query-Terms abfragen, Ergebnisse
// de-duplizieren und parallel ingestieren, zuletzt last_snapshot_id setzen.
func (s *IngestService) RunProfile(ctx context.Context, profileID uint, snapshotID string) (*IngestResult, error) {
	var profile models.MonitoringProfile
	if err := s.DB.First(&profile, "profile_id = ? AND is_active = ?", profileID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: active profile %d", ErrUnknownProfile, profileID)
		}
		return nil, err
	}

	log := s.Logger.With(zap.Uint("profile_id", profileID), zap.String("query", profile.QueryTerms))
	log.Info("Starte Ingest-Lauf für Profil.")

	snapshotID, err := s.EnsureSnapshot(snapshotID, fmt.Sprintf("ingest for profile %d (%s)", profileID, profile.Name))
	if err != nil {
		return nil, err
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -s.Config.IngestWindowDays)

	// Ergebnisse aller Sources einsammeln und über doc_id de-duplizieren
	allDocs := make(map[string]*providers.DocumentPayload)
	for _, source := range s.Sources {
		docs, err := source.Fetch(ctx, profile.QueryTerms, from, to)
		if err != nil {
			log.Error("Source-Abfrage fehlgeschlagen", zap.String("source", source.Name()), zap.Error(err))
			continue
		}
		log.Info("Source hat Ergebnisse geliefert", zap.String("source", source.Name()), zap.Int("count", len(docs)))
		for _, doc := range docs {
			if doc.DocID == "" {
				continue
			}
			if _, ok := allDocs[doc.DocID]; !ok {
				allDocs[doc.DocID] = doc
			}
		}
	}

	result, err := s.ingestAll(ctx, snapshotID, allDocs, log)
	if err != nil {
		return nil, err
	}

	// Einzige Mutation am Profil: der zuletzt ausgewertete Snapshot
	if err := s.DB.Model(&models.MonitoringProfile{}).
		Where("profile_id = ?", profileID).
		Update("last_snapshot_id", snapshotID).Error; err != nil {
		return nil, err
	}

	log.Info("Ingest-Lauf abgeschlossen",
		zap.String("snapshot_id", snapshotID),
		zap.Int("new_documents", result.NewDocuments),
		zap.Int("mentions", result.Mentions))
	return result, nil
}

// RunAllProfiles führt den Ingest für alle aktiven Profile aus (Cron-Einstieg).
func (s *IngestService) RunAllProfiles(ctx context.Context) (*IngestResult, error) {
	var profiles []models.MonitoringProfile
	if err := s.DB.Where("is_active = ?", true).Find(&profiles).Error; err != nil {
		return nil, err
	}

	total := &IngestResult{}
	for _, profile := range profiles {
		res, err := s.RunProfile(ctx, profile.ProfileID, "")
		if err != nil {
			s.Logger.Error("Profil-Lauf fehlgeschlagen", zap.Uint("profile_id", profile.ProfileID), zap.Error(err))
			continue
		}
		total.SnapshotID = res.SnapshotID
		total.NewDocuments += res.NewDocuments
		total.Skipped += res.Skipped
		total.Mentions += res.Mentions
	}
	return total, nil
}

// ingestAll verarbeitet die de-duplizierten Payloads parallel. Die Einheit der
// Parallelität ist das einzelne Dokument; jede Insert-Sequenz bleibt eine
// kurze eigene Transaktion.
func (s *IngestService) ingestAll(ctx context.Context, snapshotID string, docs map[string]*providers.DocumentPayload, log *zap.Logger) (*IngestResult, error) {
	matcher, err := s.Catalog.NewMatcher()
	if err != nil {
		return nil, err
	}

	result := &IngestResult{SnapshotID: snapshotID}
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5) // Limit auf 5 parallele Verarbeitungen

	for _, doc := range docs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(doc *providers.DocumentPayload) {
			defer wg.Done()
			defer func() { <-semaphore }()

			mentions, stored, err := s.IngestDocument(ctx, snapshotID, doc, matcher)
			if err != nil {
				log.Error("Dokument-Ingest fehlgeschlagen", zap.String("doc_id", doc.DocID), zap.Error(err))
				return
			}
			mu.Lock()
			if stored {
				result.NewDocuments++
			} else {
				result.Skipped++
			}
			result.Mentions += mentions
			mu.Unlock()
		}(doc)
	}

	wg.Wait()
	return result, nil
}
