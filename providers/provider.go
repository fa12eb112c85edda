package providers

import (
	"context"
	"encoding/json"
	"time"
)

// DocumentPayload ist das standardisierte Ergebnis eines Sources: ein Dokument
// samt rohen Affiliation-/Sponsor-Strings und dem Original-Payload für die
// Provenance-Ablage.
type DocumentPayload struct {
	DocID           string // source-präfixiert, z.B. "PMID:12345"
	Source          string
	Title           string
	Abstract        string
	URL             string
	PublishedDate   string // best-effort ISO (yyyy, yyyy-mm oder yyyy-mm-dd)
	EpubDate        string
	LastUpdated     string
	PublicationType string
	Affiliations    []string
	Raw             json.RawMessage
}

// Source ist das Interface, das jeder Ingest-Adapter (PubMed, ClinicalTrials.gov, ...)
// implementieren muss.
type Source interface {
	// Fetch führt eine Suche für die Query im Datumsfenster [from, to] aus und
	// gibt standardisierte Dokument-Payloads zurück.
	Fetch(ctx context.Context, query string, from, to time.Time) ([]*DocumentPayload, error)

	// Name gibt den eindeutigen Source-Namen zurück (z.B. "pubmed").
	Name() string
}
