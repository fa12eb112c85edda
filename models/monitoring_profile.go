package models

import "time"

// MonitoringProfile ist eine gespeicherte Alert-Konfiguration: Query + optionaler
// Competitor-Scope für einen Wirkstoff. Deaktivierung über IsActive statt Löschen.
type MonitoringProfile struct {
	ProfileID  uint   `json:"profile_id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"not null"`
	MoleculeID uint   `json:"molecule_id" gorm:"index;not null"`
	QueryTerms string `json:"query_terms" gorm:"type:text;not null"`

	// Pipe-separierte Liste kanonischer Wettbewerber-Namen; leer = kein Filter.
	CompetitorScope string `json:"competitor_scope,omitempty" gorm:"type:text"`

	Frequency string `json:"frequency,omitempty"` // z.B. "daily", "weekly"
	IsActive  bool   `json:"is_active" gorm:"default:true"`

	// Zuletzt ausgewerteter Snapshot; einzige Mutation, die eine Evaluation am Profil vornimmt.
	LastSnapshotID *string `json:"last_snapshot_id,omitempty" gorm:"size:64"`

	CreatedAt time.Time `json:"created_at"`

	Molecule Molecule `json:"-" gorm:"foreignKey:MoleculeID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (MonitoringProfile) TableName() string {
	return "monitoring_profiles"
}

// ScopeList liefert den Competitor-Scope als Slice kanonischer Namen.
func (p *MonitoringProfile) ScopeList() []string {
	return splitPipeList(p.CompetitorScope)
}

// SetScopeList serialisiert den Scope in das pipe-separierte Speicherformat.
func (p *MonitoringProfile) SetScopeList(names []string) {
	p.CompetitorScope = joinPipeList(names)
}
