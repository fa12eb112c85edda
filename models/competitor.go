package models

// Competitor repräsentiert ein Wettbewerber-Unternehmen mit kanonischem Namen.
type Competitor struct {
	CompetitorID  uint   `json:"competitor_id" gorm:"primaryKey"`
	CanonicalName string `json:"canonical_name" gorm:"uniqueIndex;not null"`

	Aliases  []CompetitorAlias   `json:"aliases,omitempty" gorm:"foreignKey:CompetitorID;constraint:OnDelete:CASCADE"`
	Mentions []CompetitorMention `json:"-" gorm:"foreignKey:CompetitorID;constraint:OnDelete:CASCADE"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Competitor) TableName() string {
	return "competitors"
}

// CompetitorAlias ist eine alternative Schreibweise, die im Matching auf den
// kanonischen Wettbewerber aufgelöst wird. Eindeutig pro Wettbewerber; derselbe
// Alias-Text darf bei mehreren Wettbewerbern vorkommen.
type CompetitorAlias struct {
	AliasID      uint   `json:"alias_id" gorm:"primaryKey"`
	CompetitorID uint   `json:"competitor_id" gorm:"index:idx_alias_per_competitor,unique;not null"`
	Alias        string `json:"alias" gorm:"index:idx_alias_per_competitor,unique;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (CompetitorAlias) TableName() string {
	return "competitor_aliases"
}
