// Package pubmed enthält die Logik für die Interaktion mit der PubMed E-Utilities API.
package pubmed

import (
	"encoding/xml"
)

// ESearchResponse repräsentiert die JSON-Antwort von ESearch für die ID-Suche.
type ESearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IdList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// PubmedArticleSet repräsentiert das gesamte XML-Dokument von EFetch.
type PubmedArticleSet struct {
	XMLName       xml.Name        `xml:"PubmedArticleSet"`
	PubmedArticle []PubmedArticle `xml:"PubmedArticle"`
}

// PubmedArticle ist ein einzelner Artikel in der EFetch-Antwort.
type PubmedArticle struct {
	MedlineCitation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Text []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				JournalIssue struct {
					PubDate PubDate `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			ArticleDate PubDate `xml:"ArticleDate"`
			AuthorList  struct {
				Authors []Author `xml:"Author"`
			} `xml:"AuthorList"`
			PublicationTypeList struct {
				PublicationType []string `xml:"PublicationType"`
			} `xml:"PublicationTypeList"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
	PubmedData struct {
		History struct {
			PubMedPubDate []HistoryDate `xml:"PubMedPubDate"`
		} `xml:"History"`
	} `xml:"PubmedData"`
}

// Author inkl. AffiliationInfo; die rohen Affiliation-Strings werden
// unverändert übernommen, Normalisierung ist Sache des Matchings.
type Author struct {
	LastName        string `xml:"LastName"`
	Initials        string `xml:"Initials"`
	AffiliationInfo []struct {
		Affiliation string `xml:"Affiliation"`
	} `xml:"AffiliationInfo"`
}

// PubDate ist ein PubMed-Datumselement (Jahr/Monat/Tag teils leer, Monat teils "Jan").
type PubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// HistoryDate ist ein PubMedPubDate-Eintrag aus PubmedData/History.
type HistoryDate struct {
	PubStatus string `xml:"PubStatus,attr"`
	Year      string `xml:"Year"`
	Month     string `xml:"Month"`
	Day       string `xml:"Day"`
}
