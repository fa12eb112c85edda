package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evidence-hand/models"
)

// QueryExecutor kapselt die Volltext-Semantik der query_terms. Echte
// Suchmaschinen lassen sich hinter diesem Interface anschließen; der Default
// macht eine case-insensitive Substring-Suche über Titel und Abstract.
type QueryExecutor interface {
	// MatchingDocIDs liefert die doc_ids eines Snapshots, die auf die Query passen.
	MatchingDocIDs(ctx context.Context, db *gorm.DB, snapshotID, queryTerms string) ([]string, error)
}

// LikeQueryExecutor ist der Default-Executor: jeder durch " AND " getrennte
// Term muss in Titel oder Abstract vorkommen.
type LikeQueryExecutor struct{}

// MatchingDocIDs implementiert QueryExecutor.
func (LikeQueryExecutor) MatchingDocIDs(ctx context.Context, db *gorm.DB, snapshotID, queryTerms string) ([]string, error) {
	query := db.WithContext(ctx).Model(&models.Document{}).Where("snapshot_id = ?", snapshotID)
	for _, term := range strings.Split(queryTerms, " AND ") {
		term = strings.TrimSpace(strings.Trim(strings.TrimSpace(term), `"`))
		if term == "" {
			continue
		}
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(abstract) LIKE ?", pattern, pattern)
	}

	var docIDs []string
	if err := query.Pluck("doc_id", &docIDs).Error; err != nil {
		return nil, err
	}
	return docIDs, nil
}

// ProfileService verwaltet Monitoring-Profile und wertet sie gegen Snapshots aus.
type ProfileService struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Executor QueryExecutor
}

// NewProfileService erstellt eine neue Instanz des ProfileService.
func NewProfileService(db *gorm.DB, logger *zap.Logger, executor QueryExecutor) *ProfileService {
	if executor == nil {
		executor = LikeQueryExecutor{}
	}
	return &ProfileService{DB: db, Logger: logger, Executor: executor}
}

// CreateProfile legt ein Profil für ein bekanntes Molekül an.
func (s *ProfileService) CreateProfile(profile *models.MonitoringProfile) error {
	var molecule models.Molecule
	if err := s.DB.First(&molecule, "molecule_id = ?", profile.MoleculeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrUnknownMolecule, profile.MoleculeID)
		}
		return err
	}
	profile.IsActive = true
	return s.DB.Create(profile).Error
}

// SetActive schaltet ein Profil weich an/aus; Profile werden nicht gelöscht,
// um Triage-Referenzen zu erhalten.
func (s *ProfileService) SetActive(profileID uint, active bool) error {
	res := s.DB.Model(&models.MonitoringProfile{}).
		Where("profile_id = ?", profileID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrUnknownProfile, profileID)
	}
	return nil
}

// Evaluate wertet ein Profil gegen einen Snapshot aus: Dokumente, die auf die
// query_terms passen, geschnitten mit Dokumenten, die mindestens eine Mention
// eines Wettbewerbers aus dem Scope tragen (leerer Scope = kein Filter).
// Einzige Mutation am Profil ist das Fortschreiben von last_snapshot_id.
func (s *ProfileService) Evaluate(ctx context.Context, profileID uint, snapshotID string) ([]models.Document, error) {
	var profile models.MonitoringProfile
	if err := s.DB.First(&profile, "profile_id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownProfile, profileID)
		}
		return nil, err
	}
	var snap models.Snapshot
	if err := s.DB.First(&snap, "snapshot_id = ?", snapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshotID)
		}
		return nil, err
	}

	docIDs, err := s.Executor.MatchingDocIDs(ctx, s.DB, snapshotID, profile.QueryTerms)
	if err != nil {
		return nil, err
	}
	if len(docIDs) == 0 {
		return nil, s.markEvaluated(profileID, snapshotID)
	}

	query := s.DB.WithContext(ctx).Model(&models.Document{}).Where("doc_id IN ?", docIDs)
	if scope := profile.ScopeList(); len(scope) > 0 {
		query = query.Where(
			"doc_id IN (?)",
			s.DB.Model(&models.CompetitorMention{}).
				Select("competitor_mentions.doc_id").
				Joins("JOIN competitors ON competitors.competitor_id = competitor_mentions.competitor_id").
				Where("competitors.canonical_name IN ?", scope),
		)
	}

	var docs []models.Document
	if err := query.Order("published_date DESC, doc_id").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, s.markEvaluated(profileID, snapshotID)
}

func (s *ProfileService) markEvaluated(profileID uint, snapshotID string) error {
	return s.DB.Model(&models.MonitoringProfile{}).
		Where("profile_id = ?", profileID).
		Update("last_snapshot_id", snapshotID).Error
}

// NewItem ist ein Dokument des aktuellen Snapshots, das im Vergleichs-Snapshot
// noch nicht vorkam.
type NewItem struct {
	DocID           string `json:"doc_id"`
	Title           string `json:"title"`
	PublishedDate   string `json:"published_date"`
	PublicationType string `json:"publication_type"`
	URL             string `json:"url"`
	HasCompetitor   bool   `json:"has_competitor_affiliation"`
}

// NewSince liefert die Dokumente in currentID, deren doc_id in previousID noch
// nicht vorhanden war, also das "neu seit letztem Lauf"-Delta zweier Snapshots.
// Funktioniert nur mit Policy "skip": bei "update" wandern Dokumente in den
// neuen Snapshot und tauchen im Delta wieder auf.
func (s *ProfileService) NewSince(ctx context.Context, previousID, currentID string) ([]NewItem, error) {
	for _, id := range []string{previousID, currentID} {
		var snap models.Snapshot
		if err := s.DB.First(&snap, "snapshot_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, id)
			}
			return nil, err
		}
	}

	var docs []models.Document
	err := s.DB.WithContext(ctx).
		Where("snapshot_id = ?", currentID).
		Where("doc_id NOT IN (?)", s.DB.Model(&models.Document{}).
			Select("doc_id").Where("snapshot_id = ?", previousID)).
		Order("published_date DESC, doc_id").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	items := make([]NewItem, 0, len(docs))
	for _, doc := range docs {
		var mentionCount int64
		if err := s.DB.Model(&models.CompetitorMention{}).
			Where("doc_id = ?", doc.DocID).Count(&mentionCount).Error; err != nil {
			return nil, err
		}
		items = append(items, NewItem{
			DocID:           doc.DocID,
			Title:           doc.Title,
			PublishedDate:   doc.PublishedDate,
			PublicationType: doc.PublicationType,
			URL:             doc.URL,
			HasCompetitor:   mentionCount > 0,
		})
	}
	return items, nil
}
