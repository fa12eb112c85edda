package models

import "time"

// Snapshot ist die unveränderliche Batch-Grenze eines Ingest-Laufs.
// Dokumente referenzieren genau einen Snapshot; ein Snapshot wird nie
// mutiert, nur durch einen neueren abgelöst.
type Snapshot struct {
	SnapshotID string    `json:"snapshot_id" gorm:"primaryKey;size:64"`
	CreatedAt  time.Time `json:"created_at"`
	Notes      string    `json:"notes,omitempty" gorm:"type:text"`

	Documents []Document `json:"-" gorm:"foreignKey:SnapshotID;references:SnapshotID;constraint:OnDelete:CASCADE"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Snapshot) TableName() string {
	return "snapshots"
}
