// Package ctgov enthält die Logik für die ClinicalTrials.gov API v2.
package ctgov

// StudiesResponse repräsentiert eine Seite der /studies-Antwort.
type StudiesResponse struct {
	Studies       []Study `json:"studies"`
	NextPageToken string  `json:"nextPageToken"`
}

// Study ist eine einzelne Studie in der API-v2-Antwort.
type Study struct {
	ProtocolSection ProtocolSection `json:"protocolSection"`
}

// ProtocolSection bündelt die hier relevanten Module einer Studie.
type ProtocolSection struct {
	IdentificationModule struct {
		NCTID         string `json:"nctId"`
		BriefTitle    string `json:"briefTitle"`
		OfficialTitle string `json:"officialTitle"`
	} `json:"identificationModule"`
	StatusModule struct {
		StartDateStruct          DateStruct `json:"startDateStruct"`
		CompletionDateStruct     DateStruct `json:"completionDateStruct"`
		StudyFirstPostDateStruct DateStruct `json:"studyFirstPostDateStruct"`
		LastUpdatePostDateStruct DateStruct `json:"lastUpdatePostDateStruct"`
	} `json:"statusModule"`
	DescriptionModule struct {
		BriefSummary        string `json:"briefSummary"`
		DetailedDescription string `json:"detailedDescription"`
	} `json:"descriptionModule"`
	DesignModule struct {
		Phases []string `json:"phases"`
	} `json:"designModule"`
	SponsorCollaboratorsModule struct {
		LeadSponsor   Party   `json:"leadSponsor"`
		Collaborators []Party `json:"collaborators"`
	} `json:"sponsorCollaboratorsModule"`
}

// DateStruct ist ein CT.gov-Datumsobjekt (yyyy, yyyy-mm oder yyyy-mm-dd).
type DateStruct struct {
	Date string `json:"date"`
}

// Party ist Sponsor oder Collaborator.
type Party struct {
	Name string `json:"name"`
}
