package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"evidence-hand/config"
	"evidence-hand/providers"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

const efetchBatchSize = 100

// Fetcher implementiert das Source-Interface für PubMed.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des PubMed-Fetchers.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Sources zurück.
func (f *Fetcher) Name() string {
	return "pubmed"
}

// Fetch führt eine vollständige PubMed-Suche durch: ESearch für PMIDs im
// Publikationsdatums-Fenster, dann EFetch in Batches für die Details.
// Dokumente, deren Erstveröffentlichung (epub vor print) außerhalb des
// Fensters liegt, werden verworfen; unparsebare Daten bleiben erhalten.
func (f *Fetcher) Fetch(ctx context.Context, query string, from, to time.Time) ([]*providers.DocumentPayload, error) {
	pmids, err := f.searchIDs(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("pubmed esearch: %w", err)
	}
	f.Logger.Info("PubMed ESearch abgeschlossen", zap.String("query", query), zap.Int("pmids", len(pmids)))

	var all []*providers.DocumentPayload
	for i := 0; i < len(pmids); i += efetchBatchSize {
		end := i + efetchBatchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batch, err := f.fetchBatch(ctx, pmids[i:end])
		if err != nil {
			return nil, fmt.Errorf("pubmed efetch: %w", err)
		}
		all = append(all, batch...)

		// NCBI-Rate-Limit: max. 3 Requests/Sekunde ohne API-Key
		if end < len(pmids) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(340 * time.Millisecond):
			}
		}
	}

	in := make([]*providers.DocumentPayload, 0, len(all))
	dropped := 0
	for _, doc := range all {
		if firstPublicationInWindow(doc, from, to) {
			in = append(in, doc)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		f.Logger.Info("Dokumente außerhalb des Erstveröffentlichungs-Fensters verworfen",
			zap.Int("dropped", dropped), zap.Int("kept", len(in)))
	}
	return in, nil
}

// searchIDs führt eine ESearch-Abfrage mit explizitem pdat-Fenster durch.
func (f *Fetcher) searchIDs(ctx context.Context, query string, from, to time.Time) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmode", "json")
	params.Set("retmax", fmt.Sprintf("%d", f.Config.PubMedRetMax))
	params.Set("sort", "pub date")
	params.Set("datetype", "pdat")
	params.Set("mindate", from.Format("2006/01/02"))
	params.Set("maxdate", to.Format("2006/01/02"))
	if f.Config.PubMedAPIKey != "" {
		params.Set("api_key", f.Config.PubMedAPIKey)
	}

	searchURL := fmt.Sprintf("%s/esearch.fcgi?%s", f.Config.PubMedBaseURL, params.Encode())
	f.Logger.Debug("Rufe ESearch-URL auf", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch failed: status %d", resp.StatusCode)
	}

	var esearchResp ESearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&esearchResp); err != nil {
		return nil, err
	}
	return esearchResp.ESearchResult.IdList, nil
}

// fetchBatch holt Metadaten für einen PMID-Batch via EFetch.
func (f *Fetcher) fetchBatch(ctx context.Context, pmids []string) ([]*providers.DocumentPayload, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")
	if f.Config.PubMedAPIKey != "" {
		params.Set("api_key", f.Config.PubMedAPIKey)
	}

	efetchURL := fmt.Sprintf("%s/efetch.fcgi?%s", f.Config.PubMedBaseURL, params.Encode())
	f.Logger.Debug("Rufe EFetch-URL auf", zap.String("url", efetchURL), zap.Int("batch_size", len(pmids)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, efetchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch failed: status %d", resp.StatusCode)
	}

	var articleSet PubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&articleSet); err != nil {
		return nil, err
	}

	var docs []*providers.DocumentPayload
	for i := range articleSet.PubmedArticle {
		if doc := mapArticleToPayload(&articleSet.PubmedArticle[i]); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// mapArticleToPayload wandelt ein XML-Article-Objekt in ein DocumentPayload um.
func mapArticleToPayload(article *PubmedArticle) *providers.DocumentPayload {
	pmid := strings.TrimSpace(article.MedlineCitation.PMID)
	if pmid == "" {
		return nil
	}

	abstractParts := make([]string, 0, len(article.MedlineCitation.Article.Abstract.Text))
	for _, part := range article.MedlineCitation.Article.Abstract.Text {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			abstractParts = append(abstractParts, trimmed)
		}
	}

	// Affiliations über alle Autoren einsammeln, Duplikate pro Dokument vermeiden
	var affiliations []string
	seen := map[string]bool{}
	for _, author := range article.MedlineCitation.Article.AuthorList.Authors {
		for _, info := range author.AffiliationInfo {
			aff := strings.TrimSpace(info.Affiliation)
			if aff != "" && !seen[aff] {
				seen[aff] = true
				affiliations = append(affiliations, aff)
			}
		}
	}

	publicationType := ""
	if len(article.MedlineCitation.Article.PublicationTypeList.PublicationType) > 0 {
		publicationType = article.MedlineCitation.Article.PublicationTypeList.PublicationType[0]
	}

	doc := &providers.DocumentPayload{
		DocID:           "PMID:" + pmid,
		Source:          "pubmed",
		Title:           article.MedlineCitation.Article.Title,
		Abstract:        strings.Join(abstractParts, "\n"),
		URL:             fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid),
		PublishedDate:   parsePubDate(article),
		EpubDate:        parseEpubDate(article),
		PublicationType: publicationType,
		Affiliations:    affiliations,
	}

	if raw, err := json.Marshal(map[string]any{
		"pmid":              pmid,
		"title":             doc.Title,
		"abstract":          doc.Abstract,
		"pub_date":          doc.PublishedDate,
		"epub_date":         doc.EpubDate,
		"publication_types": article.MedlineCitation.Article.PublicationTypeList.PublicationType,
		"affiliations":      affiliations,
		"url":               doc.URL,
	}); err == nil {
		doc.Raw = raw
	}
	return doc
}

// parsePubDate liefert das Publikationsdatum best-effort als ISO-artigen String.
// ArticleDate ist meist am spezifischsten, danach Journal-PubDate; Monatsnamen
// werden aufgelöst, MedlineDate fällt auf das Jahr zurück.
func parsePubDate(article *PubmedArticle) string {
	if iso := isoFromParts(article.MedlineCitation.Article.ArticleDate.Year,
		article.MedlineCitation.Article.ArticleDate.Month,
		article.MedlineCitation.Article.ArticleDate.Day); iso != "" {
		return iso
	}

	pd := article.MedlineCitation.Article.Journal.JournalIssue.PubDate
	if iso := isoFromParts(pd.Year, pd.Month, pd.Day); iso != "" {
		return iso
	}

	// MedlineDate wie "2024 Jan-Feb": erstes 4-stelliges Token als Jahr
	for _, token := range strings.Fields(pd.MedlineDate) {
		if len(token) == 4 && isDigits(token) {
			return token
		}
	}
	return ""
}

// parseEpubDate liefert das Datum der elektronischen Erstveröffentlichung
// aus PubmedData/History (PubStatus="epub"), falls vorhanden.
func parseEpubDate(article *PubmedArticle) string {
	for _, hd := range article.PubmedData.History.PubMedPubDate {
		if hd.PubStatus != "epub" {
			continue
		}
		return isoFromParts(hd.Year, hd.Month, hd.Day)
	}
	return ""
}

var monthNames = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// isoFromParts baut yyyy, yyyy-mm oder yyyy-mm-dd aus den Teilwerten.
func isoFromParts(year, month, day string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	mm := normalizeMonth(month)
	if mm == "" {
		return year
	}
	day = strings.TrimSpace(day)
	if day == "" || !isDigits(day) {
		return year + "-" + mm
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return year + "-" + mm + "-" + day
}

func normalizeMonth(month string) string {
	month = strings.TrimSpace(month)
	if month == "" {
		return ""
	}
	if isDigits(month) {
		if len(month) == 1 {
			return "0" + month
		}
		return month
	}
	if len(month) >= 3 {
		return monthNames[month[:3]]
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// firstPublicationInWindow prüft das 30-Tage-Fenster gegen die
// Erstveröffentlichung (epub, sonst print). Unparsebare Daten werden behalten,
// damit keine Dokumente stillschweigend verloren gehen.
func firstPublicationInWindow(doc *providers.DocumentPayload, from, to time.Time) bool {
	first := doc.EpubDate
	if first == "" {
		first = doc.PublishedDate
	}
	t, ok := parseLooseDate(first)
	if !ok {
		return true
	}
	fromDay := from.Truncate(24 * time.Hour)
	toDay := to.Truncate(24 * time.Hour)
	return !t.Before(fromDay) && !t.After(toDay.Add(24*time.Hour-time.Nanosecond))
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
