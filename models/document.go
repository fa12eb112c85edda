package models

import "time"

// Source-Werte für Document.Source.
const (
	SourcePubMed   = "pubmed"
	SourceCTGov    = "ctgov"
	SourceInvestor = "investor"
	SourceNews     = "news"
)

// Document ist ein Evidenz-Dokument (Publikation, Studie, News), eindeutig über
// die source-präfixierte doc_id (z.B. "PMID:12345", "NCT:NCT01234567"), global
// statt pro Snapshot. Datumsfelder getrennt, weil Quellen sie uneinheitlich melden.
type Document struct {
	DocID      string `json:"doc_id" gorm:"primaryKey;size:128"`
	Source     string `json:"source" gorm:"index;not null"`
	SnapshotID string `json:"snapshot_id" gorm:"index;not null;size:64"`

	Title    string `json:"title"`
	Abstract string `json:"abstract,omitempty" gorm:"type:text"`
	URL      string `json:"url,omitempty"`

	PublishedDate string     `json:"published_date,omitempty"` // best-effort ISO (yyyy, yyyy-mm oder yyyy-mm-dd)
	EpubDate      string     `json:"epub_date,omitempty"`      // elektronische Erstveröffentlichung
	EntryDate     time.Time  `json:"entry_date"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`

	PublicationType string `json:"publication_type,omitempty" gorm:"index"`
	RawJSONPath     string `json:"raw_json_path,omitempty" gorm:"type:text"`

	Affiliations []Affiliation       `json:"affiliations,omitempty" gorm:"foreignKey:DocID;references:DocID;constraint:OnDelete:CASCADE"`
	Mentions     []CompetitorMention `json:"-" gorm:"foreignKey:DocID;references:DocID;constraint:OnDelete:CASCADE"`
	Triage       []Triage            `json:"-" gorm:"foreignKey:DocID;references:DocID;constraint:OnDelete:CASCADE"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Document) TableName() string {
	return "documents"
}

// Affiliation ist ein roher Affiliation-/Sponsor-String eines Dokuments.
// Keine Normalisierung bei der Speicherung; das ist Aufgabe des Matchings.
type Affiliation struct {
	AffiliationID   uint   `json:"affiliation_id" gorm:"primaryKey"`
	DocID           string `json:"doc_id" gorm:"index;not null;size:128"`
	AffiliationText string `json:"affiliation_text" gorm:"type:text;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Affiliation) TableName() string {
	return "affiliations"
}
