package services

import (
	"errors"
	"fmt"
)

// Fehler-Taxonomie des Stores. Integritätsverletzungen werden sofort an den
// Aufrufer durchgereicht, nie verschluckt oder automatisch wiederholt.
var (
	ErrUnknownSnapshot   = errors.New("snapshot not found")
	ErrUnknownDocument   = errors.New("document not found")
	ErrUnknownProfile    = errors.New("monitoring profile not found")
	ErrUnknownMolecule   = errors.New("molecule not found")
	ErrUnknownCompetitor = errors.New("competitor not found")
	ErrDuplicateSnapshot = errors.New("snapshot already exists")
	ErrInvalidStatus     = errors.New("invalid triage status")
)

// DuplicateDocumentError meldet einen doc_id-Konflikt inklusive des Snapshots,
// der das Dokument bereits hält, damit der Operator die Policy entscheiden kann.
type DuplicateDocumentError struct {
	DocID      string
	SnapshotID string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document %s already exists in snapshot %s", e.DocID, e.SnapshotID)
}
