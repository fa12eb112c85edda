package models

import "strings"

// Molecule repräsentiert einen überwachten Wirkstoff. Synonyme werden
// pipe-separiert im Feld Synonyms gespeichert (Bestandskompatibilität);
// Zugriff über SynonymList/SetSynonymList.
type Molecule struct {
	MoleculeID uint   `json:"molecule_id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"uniqueIndex;not null"`
	Synonyms   string `json:"synonyms,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Molecule) TableName() string {
	return "molecules"
}

// SynonymList liefert die Synonyme als Slice, Speicherformat bleibt pipe-separiert.
func (m *Molecule) SynonymList() []string {
	return splitPipeList(m.Synonyms)
}

// SetSynonymList serialisiert die Synonyme in das pipe-separierte Speicherformat.
func (m *Molecule) SetSynonymList(synonyms []string) {
	m.Synonyms = joinPipeList(synonyms)
}

func splitPipeList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinPipeList(parts []string) string {
	var kept []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "|")
}
