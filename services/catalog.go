package services

import (
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evidence-hand/models"
)

// CatalogService verwaltet den Entity-Katalog (Wettbewerber + Aliase, Moleküle)
// und baut daraus den Alias-Matcher.
type CatalogService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewCatalogService erstellt eine neue Instanz des CatalogService.
func NewCatalogService(db *gorm.DB, logger *zap.Logger) *CatalogService {
	return &CatalogService{DB: db, Logger: logger}
}

// UpsertCompetitor legt einen Wettbewerber samt Aliasen an (idempotent).
// Der kanonische Name selbst gehört in die Alias-Liste, damit er im Text matcht.
func (s *CatalogService) UpsertCompetitor(canonicalName string, aliases []string) (*models.Competitor, error) {
	comp := models.Competitor{CanonicalName: canonicalName}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "canonical_name"}},
		DoNothing: true,
	}).Create(&comp).Error; err != nil {
		return nil, err
	}
	// Bei DoNothing liefert Create keine ID für bestehende Zeilen
	if err := s.DB.Where("canonical_name = ?", canonicalName).First(&comp).Error; err != nil {
		return nil, err
	}

	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		row := models.CompetitorAlias{CompetitorID: comp.CompetitorID, Alias: alias}
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "competitor_id"}, {Name: "alias"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return nil, err
		}
	}

	if err := s.DB.Preload("Aliases").First(&comp, comp.CompetitorID).Error; err != nil {
		return nil, err
	}
	return &comp, nil
}

// UpsertMolecule legt ein Molekül mit pipe-separierten Synonymen an (idempotent).
func (s *CatalogService) UpsertMolecule(name string, synonyms []string) (*models.Molecule, error) {
	mol := models.Molecule{Name: name}
	mol.SetSynonymList(synonyms)
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&mol).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("name = ?", name).First(&mol).Error; err != nil {
		return nil, err
	}
	return &mol, nil
}

// Match ist ein Treffer des Alias-Matchers: Wettbewerber plus der exakte
// Alias-Text, über den gematcht wurde.
type Match struct {
	CompetitorID  uint   `json:"competitor_id"`
	CanonicalName string `json:"canonical_name"`
	Alias         string `json:"alias"`
}

// MoleculeMatch ist das Molekül-Gegenstück zum Alias-Match. Es wird nirgends
// persistiert; dem Schema fehlt bewusst ein molecule_mentions-Analog.
type MoleculeMatch struct {
	MoleculeID uint   `json:"molecule_id"`
	Name       string `json:"name"`
	Synonym    string `json:"synonym"`
}

type aliasEntry struct {
	lowered       string
	alias         string
	competitorID  uint
	canonicalName string
}

type synonymEntry struct {
	lowered    string
	synonym    string
	moleculeID uint
	name       string
}

// Matcher prüft freie Texte (Affiliations, Funding-Statements) per
// case-insensitiver Substring-Suche gegen den Katalogstand zum Ladezeitpunkt.
// Die Einträge sind nach (alias, competitor_id) sortiert, damit die Ausgabe
// bei gleichem Katalog und gleichem Input immer identisch ist.
type Matcher struct {
	aliases  []aliasEntry
	synonyms []synonymEntry
}

// NewMatcher lädt den kompletten Katalog aus der Datenbank.
func (s *CatalogService) NewMatcher() (*Matcher, error) {
	var rows []struct {
		Alias         string
		CompetitorID  uint
		CanonicalName string
	}
	err := s.DB.Table("competitor_aliases").
		Select("competitor_aliases.alias, competitor_aliases.competitor_id, competitors.canonical_name").
		Joins("JOIN competitors ON competitors.competitor_id = competitor_aliases.competitor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	m := &Matcher{aliases: make([]aliasEntry, 0, len(rows))}
	for _, row := range rows {
		m.aliases = append(m.aliases, aliasEntry{
			lowered:       strings.ToLower(row.Alias),
			alias:         row.Alias,
			competitorID:  row.CompetitorID,
			canonicalName: row.CanonicalName,
		})
	}
	sort.Slice(m.aliases, func(i, j int) bool {
		if m.aliases[i].alias != m.aliases[j].alias {
			return m.aliases[i].alias < m.aliases[j].alias
		}
		return m.aliases[i].competitorID < m.aliases[j].competitorID
	})

	var molecules []models.Molecule
	if err := s.DB.Find(&molecules).Error; err != nil {
		return nil, err
	}
	for _, mol := range molecules {
		for _, syn := range mol.SynonymList() {
			m.synonyms = append(m.synonyms, synonymEntry{
				lowered:    strings.ToLower(syn),
				synonym:    syn,
				moleculeID: mol.MoleculeID,
				name:       mol.Name,
			})
		}
	}
	sort.Slice(m.synonyms, func(i, j int) bool {
		if m.synonyms[i].synonym != m.synonyms[j].synonym {
			return m.synonyms[i].synonym < m.synonyms[j].synonym
		}
		return m.synonyms[i].moleculeID < m.synonyms[j].moleculeID
	})

	s.Logger.Debug("Matcher geladen",
		zap.Int("aliases", len(m.aliases)),
		zap.Int("molecule_synonyms", len(m.synonyms)))
	return m, nil
}

// Match liefert alle (Wettbewerber, Alias)-Paare, deren Alias im Text vorkommt.
// Bewusst inklusiv: jeder matchende Alias wird gemeldet, auch Überlappungen.
// Recall vor Precision; Deduplizierung übernimmt der Unique-Constraint auf
// competitor_mentions. Match-Text ist immer der Alias, wie er im Katalog steht.
func (m *Matcher) Match(text string) []Match {
	lowered := strings.ToLower(CleanMatchText(text))
	if lowered == "" {
		return nil
	}
	var matches []Match
	for _, entry := range m.aliases {
		if strings.Contains(lowered, entry.lowered) {
			matches = append(matches, Match{
				CompetitorID:  entry.competitorID,
				CanonicalName: entry.canonicalName,
				Alias:         entry.alias,
			})
		}
	}
	return matches
}

// MatchMolecules wendet denselben Lookup-Kontrakt auf Molekül-Synonyme an.
func (m *Matcher) MatchMolecules(text string) []MoleculeMatch {
	lowered := strings.ToLower(CleanMatchText(text))
	if lowered == "" {
		return nil
	}
	var matches []MoleculeMatch
	for _, entry := range m.synonyms {
		if strings.Contains(lowered, entry.lowered) {
			matches = append(matches, MoleculeMatch{
				MoleculeID: entry.moleculeID,
				Name:       entry.name,
				Synonym:    entry.synonym,
			})
		}
	}
	return matches
}

var cleanTransformer = transform.Chain(
	norm.NFKC,
	runes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}),
)

// CleanMatchText normalisiert Input-Text vor dem Matching: Unicode-NFKC
// (typografische Varianten wie NBSP oder Ligaturen) und Whitespace-Kollaps.
// Die gespeicherten Affiliation-Strings bleiben davon unberührt.
func CleanMatchText(text string) string {
	cleaned, _, err := transform.String(cleanTransformer, text)
	if err != nil {
		cleaned = text
	}
	return strings.Join(strings.Fields(cleaned), " ")
}
