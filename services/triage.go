package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evidence-hand/models"
)

// TriageService verwaltet die Review-Disposition pro (Dokument, Profil).
// Upsert-Semantik: höchstens ein Datensatz pro Paar, Status und Notizen sind
// revidierbar, reviewed_at wird bei jedem Schreiben fortgeschrieben.
// Last-writer-wins bei konkurrierenden Reviewern; die Eindeutigkeit erzwingen
// die Unique-Indizes (inkl. partiellem Index für profile_id IS NULL), verlorene
// Insert-Rennen werden als Update wiederholt.
type TriageService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewTriageService erstellt eine neue Instanz des TriageService.
func NewTriageService(db *gorm.DB, logger *zap.Logger) *TriageService {
	return &TriageService{DB: db, Logger: logger}
}

// SetTriage setzt oder revidiert den Status für (doc_id, profile_id).
// profileID nil bedeutet profil-freie Triage, abgesichert über den partiellen
// Unique-Index. Verliert ein Insert das Rennen gegen einen parallelen Reviewer,
// wird der Aufruf einmal wiederholt und revidiert dann die gewonnene Zeile.
func (s *TriageService) SetTriage(docID string, profileID *uint, status, notes string) (*models.Triage, error) {
	if !models.ValidTriageStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var doc models.Document
	if err := s.DB.First(&doc, "doc_id = ?", docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, docID)
		}
		return nil, err
	}
	if profileID != nil {
		var profile models.MonitoringProfile
		if err := s.DB.First(&profile, "profile_id = ?", *profileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrUnknownProfile, *profileID)
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	var record models.Triage
	upsert := func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			query := tx.Where("doc_id = ?", docID)
			if profileID == nil {
				query = query.Where("profile_id IS NULL")
			} else {
				query = query.Where("profile_id = ?", *profileID)
			}

			err := query.First(&record).Error
			switch {
			case err == nil:
				record.Status = status
				record.Notes = notes
				record.ReviewedAt = &now
				return tx.Save(&record).Error
			case errors.Is(err, gorm.ErrRecordNotFound):
				record = models.Triage{
					DocID:      docID,
					ProfileID:  profileID,
					Status:     status,
					Notes:      notes,
					ReviewedAt: &now,
				}
				return tx.Create(&record).Error
			default:
				return err
			}
		})
	}

	err := upsert()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Ein paralleler Reviewer hat die Zeile zuerst angelegt; der zweite
		// Durchlauf findet sie und revidiert (last-writer-wins).
		err = upsert()
	}
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Triage gesetzt",
		zap.String("doc_id", docID),
		zap.String("status", status))
	return &record, nil
}

// ForDocument liefert alle Triage-Datensätze eines Dokuments.
func (s *TriageService) ForDocument(docID string) ([]models.Triage, error) {
	var records []models.Triage
	if err := s.DB.Where("doc_id = ?", docID).Order("triage_id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
