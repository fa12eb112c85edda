package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evidence-hand/models"
)

// ExportRow ist eine Zeile des Snapshot-Exports für Excel/CSV-Konsumenten.
// study_summary ist vorerst der Abstract als Proxy.
type ExportRow struct {
	Link         string `json:"link"`
	ArticleTitle string `json:"article_title"`
	StudySummary string `json:"study_summary"`
	Competitors  string `json:"competitors"`
	Source       string `json:"source"`
}

// ExportService baut Snapshot-Reports.
type ExportService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewExportService erstellt eine neue Instanz des ExportService.
func NewExportService(db *gorm.DB, logger *zap.Logger) *ExportService {
	return &ExportService{DB: db, Logger: logger}
}

// LatestSnapshotID liefert die zuletzt angelegte snapshot_id oder "" ohne Snapshots.
func (s *ExportService) LatestSnapshotID() (string, error) {
	var snap models.Snapshot
	err := s.DB.Order("created_at DESC").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return snap.SnapshotID, nil
}

// RowsForSnapshot baut die Export-Zeilen eines Snapshots. Enthalten sind nur
// Dokumente mit mindestens einer Competitor-Mention; die kanonischen Namen
// werden komma-separiert zusammengefasst.
func (s *ExportService) RowsForSnapshot(snapshotID string) ([]ExportRow, error) {
	var snap models.Snapshot
	if err := s.DB.First(&snap, "snapshot_id = ?", snapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshotID)
		}
		return nil, err
	}

	var docs []models.Document
	err := s.DB.Where("snapshot_id = ?", snapshotID).
		Where("doc_id IN (?)", s.DB.Model(&models.CompetitorMention{}).Select("doc_id")).
		Order("published_date DESC, doc_id").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(docs))
	for _, doc := range docs {
		var names []string
		err := s.DB.Model(&models.Competitor{}).
			Distinct("competitors.canonical_name").
			Joins("JOIN competitor_mentions ON competitor_mentions.competitor_id = competitors.competitor_id").
			Where("competitor_mentions.doc_id = ?", doc.DocID).
			Order("competitors.canonical_name").
			Pluck("competitors.canonical_name", &names).Error
		if err != nil {
			return nil, err
		}
		rows = append(rows, ExportRow{
			Link:         doc.URL,
			ArticleTitle: doc.Title,
			StudySummary: doc.Abstract,
			Competitors:  strings.Join(names, ", "),
			Source:       doc.Source,
		})
	}
	return rows, nil
}
