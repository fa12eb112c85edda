package models

import "time"

// Triage-Status-Werte. "unreviewed" ist der Initialzustand; flagged/ignored
// sind revidierbar, keine echten Endzustände.
const (
	TriageUnreviewed = "unreviewed"
	TriageFlagged    = "flagged"
	TriageIgnored    = "ignored"
)

// Triage ist die menschliche Review-Disposition eines Dokuments, optional auf
// ein Monitoring-Profil bezogen. Höchstens ein Datensatz pro (doc_id, profile_id);
// ProfileID NULL bedeutet profil-freie Triage. Weil SQL-NULLs im zusammengesetzten
// Unique-Index nicht kollidieren, sichert ein partieller Index auf doc_id mit
// WHERE profile_id IS NULL die profil-freie Eindeutigkeit auf Datenbank-Ebene ab.
// Löschen eines Profils setzt ProfileID auf NULL und erhält die Triage-Historie.
type Triage struct {
	TriageID   uint       `json:"triage_id" gorm:"primaryKey"`
	DocID      string     `json:"doc_id" gorm:"index:idx_triage_doc_profile,unique;index:idx_triage_doc_nullprofile,unique,where:profile_id IS NULL;not null;size:128"`
	ProfileID  *uint      `json:"profile_id,omitempty" gorm:"index:idx_triage_doc_profile,unique"`
	Status     string     `json:"status" gorm:"not null;default:'unreviewed'"`
	Notes      string     `json:"notes,omitempty" gorm:"type:text"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	Profile *MonitoringProfile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:SET NULL"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Triage) TableName() string {
	return "triage"
}

// ValidTriageStatus prüft, ob ein Status-Wert zulässig ist.
func ValidTriageStatus(status string) bool {
	switch status {
	case TriageUnreviewed, TriageFlagged, TriageIgnored:
		return true
	}
	return false
}
