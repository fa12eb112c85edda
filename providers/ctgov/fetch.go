package ctgov

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"evidence-hand/config"
	"evidence-hand/providers"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Abstracts aus brief + detailed description werden begrenzt, damit die
// Dokumente handhabbar bleiben.
const maxAbstractLen = 12000

// Fetcher implementiert das Source-Interface für ClinicalTrials.gov (API v2).
// Lead-Sponsor und Collaborators landen als Affiliations, damit das gemeinsame
// Competitor-Matching auch Studien-Sponsoren markiert.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen ClinicalTrials.gov-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Sources zurück.
func (f *Fetcher) Name() string {
	return "ctgov"
}

// Fetch paginiert über /studies bis kein nextPageToken mehr kommt oder das
// Maximum erreicht ist. Das Datumsfenster wird nachgelagert auf first_posted
// angewendet; unparsebare Daten bleiben erhalten.
func (f *Fetcher) Fetch(ctx context.Context, query string, from, to time.Time) ([]*providers.DocumentPayload, error) {
	log := f.Logger.With(zap.String("query", query))

	var records []*providers.DocumentPayload
	pageToken := ""
	for {
		page, next, err := f.fetchPage(ctx, query, pageToken)
		if err != nil {
			return nil, fmt.Errorf("ctgov studies: %w", err)
		}
		records = append(records, page...)

		if next == "" || (f.Config.CTGovMaxTrials > 0 && len(records) >= f.Config.CTGovMaxTrials) {
			break
		}
		pageToken = next
	}
	if f.Config.CTGovMaxTrials > 0 && len(records) > f.Config.CTGovMaxTrials {
		records = records[:f.Config.CTGovMaxTrials]
	}
	log.Info("ClinicalTrials.gov-Suche abgeschlossen", zap.Int("trials", len(records)))

	in := make([]*providers.DocumentPayload, 0, len(records))
	for _, rec := range records {
		if postedInWindow(rec, from, to) {
			in = append(in, rec)
		}
	}
	if dropped := len(records) - len(in); dropped > 0 {
		log.Info("Trials außerhalb des first_posted-Fensters verworfen", zap.Int("dropped", dropped))
	}
	return in, nil
}

// fetchPage holt eine Ergebnisseite und gibt Payloads plus nextPageToken zurück.
func (f *Fetcher) fetchPage(ctx context.Context, query, pageToken string) ([]*providers.DocumentPayload, string, error) {
	params := url.Values{}
	params.Set("query.term", query)
	params.Set("pageSize", fmt.Sprintf("%d", f.Config.CTGovPageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	pageURL := fmt.Sprintf("%s?%s", f.Config.CTGovBaseURL, params.Encode())
	f.Logger.Debug("Rufe ClinicalTrials.gov API auf", zap.String("url", pageURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("studies failed: status %d", resp.StatusCode)
	}

	var studiesResp StudiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&studiesResp); err != nil {
		return nil, "", err
	}

	var docs []*providers.DocumentPayload
	for i := range studiesResp.Studies {
		if doc := mapStudyToPayload(&studiesResp.Studies[i]); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, studiesResp.NextPageToken, nil
}

// mapStudyToPayload konvertiert eine Studie in ein DocumentPayload.
func mapStudyToPayload(study *Study) *providers.DocumentPayload {
	proto := &study.ProtocolSection
	nctID := strings.TrimSpace(proto.IdentificationModule.NCTID)
	if nctID == "" {
		return nil
	}

	title := proto.IdentificationModule.OfficialTitle
	if title == "" {
		title = proto.IdentificationModule.BriefTitle
	}

	brief := strings.TrimSpace(proto.DescriptionModule.BriefSummary)
	detailed := strings.TrimSpace(proto.DescriptionModule.DetailedDescription)
	abstract := brief
	if detailed != "" && len(abstract)+len(detailed) < maxAbstractLen {
		if abstract != "" {
			abstract = abstract + "\n\n" + detailed
		} else {
			abstract = detailed
		}
	}

	var affiliations []string
	if name := strings.TrimSpace(proto.SponsorCollaboratorsModule.LeadSponsor.Name); name != "" {
		affiliations = append(affiliations, name)
	}
	for _, collab := range proto.SponsorCollaboratorsModule.Collaborators {
		if name := strings.TrimSpace(collab.Name); name != "" {
			affiliations = append(affiliations, name)
		}
	}

	publicationType := "Clinical Trial"
	if len(proto.DesignModule.Phases) > 0 {
		publicationType = "Clinical Trial (" + strings.Join(proto.DesignModule.Phases, ", ") + ")"
	}

	doc := &providers.DocumentPayload{
		DocID:           "NCT:" + nctID,
		Source:          "ctgov",
		Title:           title,
		Abstract:        abstract,
		URL:             fmt.Sprintf("https://clinicaltrials.gov/study/%s", nctID),
		PublishedDate:   proto.StatusModule.StudyFirstPostDateStruct.Date,
		LastUpdated:     proto.StatusModule.LastUpdatePostDateStruct.Date,
		PublicationType: publicationType,
		Affiliations:    affiliations,
	}

	if raw, err := json.Marshal(study); err == nil {
		doc.Raw = raw
	}
	return doc
}

// postedInWindow prüft first_posted gegen [from, to].
func postedInWindow(doc *providers.DocumentPayload, from, to time.Time) bool {
	t, ok := parseLooseDate(doc.PublishedDate)
	if !ok {
		return true
	}
	fromDay := from.Truncate(24 * time.Hour)
	return !t.Before(fromDay) && !t.After(to)
}

// parseLooseDate akzeptiert yyyy, yyyy-mm und yyyy-mm-dd.
func parseLooseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
