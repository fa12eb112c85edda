package models

import (
	"reflect"
	"testing"
)

func TestSynonymListRoundTrip(t *testing.T) {
	var m Molecule
	m.SetSynonymList([]string{"guselkumab", " Tremfya ", "", "CNTO 1959"})

	if m.Synonyms != "guselkumab|Tremfya|CNTO 1959" {
		t.Errorf("unexpected stored form: %q", m.Synonyms)
	}
	want := []string{"guselkumab", "Tremfya", "CNTO 1959"}
	if got := m.SynonymList(); !reflect.DeepEqual(got, want) {
		t.Errorf("SynonymList() = %v, expected %v", got, want)
	}
}

func TestScopeListEmpty(t *testing.T) {
	var p MonitoringProfile
	if got := p.ScopeList(); len(got) != 0 {
		t.Errorf("expected empty scope, got %v", got)
	}
	p.SetScopeList(nil)
	if p.CompetitorScope != "" {
		t.Errorf("expected empty stored scope, got %q", p.CompetitorScope)
	}
}
