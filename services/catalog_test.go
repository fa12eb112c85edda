package services

import (
	"testing"

	"go.uber.org/zap"
)

func TestMatcherAliasResolvesToCanonicalName(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db, zap.NewNop())
	mustUpsertCompetitor(t, catalog, "Johnson & Johnson", "Johnson & Johnson", "J&J", "Janssen")

	matcher, err := catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	matches := matcher.Match("Janssen Research & Development, Spring House, PA, USA")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	if matches[0].CanonicalName != "Johnson & Johnson" {
		t.Errorf("expected canonical name Johnson & Johnson, got %s", matches[0].CanonicalName)
	}
	// match_text ist der getroffene Alias, nicht der kanonische Name
	if matches[0].Alias != "Janssen" {
		t.Errorf("expected alias Janssen, got %s", matches[0].Alias)
	}
}

func TestMatcherIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db, zap.NewNop())
	mustUpsertCompetitor(t, catalog, "Pfizer", "Pfizer")

	matcher, err := catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	for _, text := range []string{
		"PFIZER Inc., New York, NY",
		"pfizer global research",
		"Employee of Pfizer.",
	} {
		if got := matcher.Match(text); len(got) != 1 {
			t.Errorf("Match(%q) = %d matches, expected 1", text, len(got))
		}
	}
	if got := matcher.Match("University of Toronto, Canada"); len(got) != 0 {
		t.Errorf("expected no match for unrelated text, got %+v", got)
	}
}

func TestMatcherSharedAliasMatchesAllOwners(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db, zap.NewNop())
	first := mustUpsertCompetitor(t, catalog, "Johnson & Johnson", "J&J")
	second := mustUpsertCompetitor(t, catalog, "Jansen & Jansen B.V.", "J&J")

	matcher, err := catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	matches := matcher.Match("This study was funded by J&J.")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches for shared alias, got %d: %+v", len(matches), matches)
	}
	// Sortierung nach (alias, competitor_id) macht die Reihenfolge deterministisch
	if matches[0].CompetitorID != first.CompetitorID || matches[1].CompetitorID != second.CompetitorID {
		t.Errorf("unexpected match order: %+v", matches)
	}
	for _, m := range matches {
		if m.Alias != "J&J" {
			t.Errorf("expected match text J&J, got %s", m.Alias)
		}
	}
}

func TestMatcherIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db, zap.NewNop())
	mustUpsertCompetitor(t, catalog, "Novartis", "Novartis")
	mustUpsertCompetitor(t, catalog, "Pfizer", "Pfizer")
	mustUpsertCompetitor(t, catalog, "AstraZeneca", "AstraZeneca")

	text := "Collaboration between Pfizer, Novartis and AstraZeneca."
	var baseline []Match
	for i := 0; i < 5; i++ {
		matcher, err := catalog.NewMatcher()
		if err != nil {
			t.Fatalf("failed to build matcher: %v", err)
		}
		got := matcher.Match(text)
		if len(got) != 3 {
			t.Fatalf("expected 3 matches, got %d", len(got))
		}
		if baseline == nil {
			baseline = got
			continue
		}
		for j := range got {
			if got[j] != baseline[j] {
				t.Fatalf("run %d produced different order: %+v vs %+v", i, got, baseline)
			}
		}
	}
}

func TestMatcherMoleculeSynonyms(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db, zap.NewNop())
	if _, err := catalog.UpsertMolecule("guselkumab", []string{"guselkumab", "Tremfya"}); err != nil {
		t.Fatalf("failed to upsert molecule: %v", err)
	}

	matcher, err := catalog.NewMatcher()
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	matches := matcher.MatchMolecules("Patients were treated with TREMFYA 100 mg.")
	if len(matches) != 1 {
		t.Fatalf("expected 1 molecule match, got %d: %+v", len(matches), matches)
	}
	if matches[0].Name != "guselkumab" || matches[0].Synonym != "Tremfya" {
		t.Errorf("unexpected molecule match: %+v", matches[0])
	}
}

func TestUpsertCompetitorIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db, zap.NewNop())

	first := mustUpsertCompetitor(t, catalog, "Pfizer", "Pfizer", "Pfizer Inc")
	second := mustUpsertCompetitor(t, catalog, "Pfizer", "Pfizer", "Pfizer Inc")

	if first.CompetitorID != second.CompetitorID {
		t.Errorf("expected same competitor_id, got %d and %d", first.CompetitorID, second.CompetitorID)
	}
	if len(second.Aliases) != 2 {
		t.Errorf("expected 2 aliases after repeated upsert, got %d", len(second.Aliases))
	}
}

func TestCleanMatchText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Novartis Pharma   AG", "Novartis Pharma AG"},
		{"  Pfizer\n Inc.\t New York ", "Pfizer Inc. New York"},
		{"", ""},
		{"   \t\n ", ""},
	}
	for _, tc := range cases {
		if got := CleanMatchText(tc.in); got != tc.want {
			t.Errorf("CleanMatchText(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
