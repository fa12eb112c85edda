package models

// Mention-Typen für CompetitorMention.MentionType.
const (
	MentionTypeAffiliation = "affiliation"
	MentionTypeFunding     = "funding"
)

// CompetitorMention ist das deduplizierte Faktum "Dokument X hat Wettbewerber Y
// über genau diesen Alias-Text getroffen". Eindeutig über das 4-Tupel
// (doc_id, competitor_id, match_text, mention_type); derselbe Wettbewerber kann
// pro Dokument mehrfach auftauchen, wenn verschiedene Aliase gematcht haben.
type CompetitorMention struct {
	MentionID    uint   `json:"mention_id" gorm:"primaryKey"`
	DocID        string `json:"doc_id" gorm:"index:idx_mention_dedup,unique;not null;size:128"`
	CompetitorID uint   `json:"competitor_id" gorm:"index:idx_mention_dedup,unique;not null"`
	MatchText    string `json:"match_text" gorm:"index:idx_mention_dedup,unique;not null"`
	MentionType  string `json:"mention_type" gorm:"index:idx_mention_dedup,unique;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (CompetitorMention) TableName() string {
	return "competitor_mentions"
}
