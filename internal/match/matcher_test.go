package match_test

import (
	"testing"

	"github.com/grade-mate/grademate/internal/match"
	"github.com/grade-mate/grademate/internal/naming"
	"github.com/grade-mate/grademate/internal/roster"
)

func testRoster() []roster.StudentRecord {
	return []roster.StudentRecord{
		{FullName: "John Smith", FirstName: "John", LastName: "Smith"},
		{FullName: "Mary Major", FirstName: "Mary", LastName: "Major"},
		{FullName: "Esi Kaman", FirstName: "Esi", LastName: "Kaman"},
	}
}

func mustMatch(t *testing.T, m *match.Matcher, c naming.Candidate, records []roster.StudentRecord, wantName, wantStrategy string) {
	t.Helper()
	res := m.Match(c, records)
	if !res.Matched() {
		t.Fatalf("Match(%q): no match, want %q via %s", c.FullName, wantName, wantStrategy)
	}
	if res.Record.FullName != wantName {
		t.Errorf("Match(%q) = %q, want %q", c.FullName, res.Record.FullName, wantName)
	}
	if res.Strategy != wantStrategy {
		t.Errorf("Match(%q) strategy = %q, want %q", c.FullName, res.Strategy, wantStrategy)
	}
}

func TestMatchExactFullName(t *testing.T) {
	m := match.New(match.DefaultConfig())
	c := naming.Normalize("John Smith_12345_assignsubmission_file")
	mustMatch(t, m, c, testRoster(), "John Smith", "exact_full_name")
}

func TestMatchCommaFolderHitsExact(t *testing.T) {
	// Normalization already reorders "Last, First", so the exact strategy
	// resolves it before anything fancier runs.
	m := match.New(match.DefaultConfig())
	c := naming.Normalize("Smith, John_12345_assignsubmission_onlinetext_html")
	mustMatch(t, m, c, testRoster(), "John Smith", "exact_full_name")
}

func TestMatchFirstLastExact(t *testing.T) {
	m := match.New(match.DefaultConfig())
	// Full name in an order the roster doesn't use, but first/last line up.
	c := naming.Candidate{FullName: "Smith John", FirstName: "John", LastName: "Smith"}
	mustMatch(t, m, c, testRoster(), "John Smith", "first_last_exact")
}

func TestMatchRawCommaFormat(t *testing.T) {
	m := match.New(match.DefaultConfig())
	// Normalization mangled the name, but the raw source still reads
	// "Last, First" with packaging junk after the first underscore.
	c := naming.Candidate{RawSource: "Smith, John_12_assignsubmission_file", FullName: "zzz"}
	mustMatch(t, m, c, testRoster(), "John Smith", "raw_comma_format")
}

func TestMatchUniqueFirstName(t *testing.T) {
	m := match.New(match.DefaultConfig())
	c := naming.Normalize("Esi_99_assignsubmission_file")
	mustMatch(t, m, c, testRoster(), "Esi Kaman", "unique_first_name")
}

func TestMatchSharedFirstNameLastNameTieBreak(t *testing.T) {
	m := match.New(match.DefaultConfig())
	records := []roster.StudentRecord{
		{FullName: "Alex Yaw", FirstName: "Alex", LastName: "Yaw"},
		{FullName: "Alex Osei", FirstName: "Alex", LastName: "Osei"},
	}
	// Two roster entries share the first name; last-name containment in the
	// candidate's full name breaks the tie.
	c := naming.Candidate{FullName: "Alex Osei Jr", FirstName: "Alex"}
	mustMatch(t, m, c, records, "Alex Osei", "unique_first_name")

	c2 := naming.Candidate{FullName: "Alex Osei", FirstName: "Alex", LastName: "Osei"}
	mustMatch(t, m, c2, records, "Alex Osei", "first_last_exact")
}

func TestMatchTokenOverlap(t *testing.T) {
	m := match.New(match.DefaultConfig())
	c := naming.Candidate{FullName: "Maria Smith", FirstName: "Maria", LastName: "Smith"}
	mustMatch(t, m, c, testRoster(), "John Smith", "token_overlap")
}

func TestMatchFuzzySimilarity(t *testing.T) {
	m := match.New(match.DefaultConfig())
	// One squashed token, one edit away from "johnsmith": no earlier
	// strategy can claim it.
	c := naming.Normalize("JonSmith_7_assignsubmission_file")
	mustMatch(t, m, c, testRoster(), "John Smith", "fuzzy_similarity")
}

func TestMatchFuzzyBelowThreshold(t *testing.T) {
	m := match.New(match.DefaultConfig())
	c := naming.Candidate{FullName: "Wxyzqv"}
	if res := m.Match(c, testRoster()); res.Matched() {
		t.Errorf("Match(%q) = %q via %s, want no match", c.FullName, res.Record.FullName, res.Strategy)
	}
}

func TestMatchInitials(t *testing.T) {
	m := match.New(match.DefaultConfig())
	c := naming.Candidate{FullName: "j s"}
	mustMatch(t, m, c, testRoster(), "John Smith", "initials")
}

func TestMatchInitialsAmbiguous(t *testing.T) {
	m := match.New(match.DefaultConfig())
	records := append(testRoster(), roster.StudentRecord{
		FullName: "Sam Jones", FirstName: "Sam", LastName: "Jones",
	})
	// "j" and "s" now fit both John Smith and Sam Jones; ambiguity means no
	// match rather than a guess.
	c := naming.Candidate{FullName: "j s"}
	if res := m.Match(c, records); res.Matched() {
		t.Errorf("ambiguous initials matched %q via %s", res.Record.FullName, res.Strategy)
	}
}

func TestMatchKnownUniqueName(t *testing.T) {
	m := match.New(match.DefaultConfig())
	// "EsiK" squashes to "esik": not a first-name hit, not enough for the
	// fuzzy threshold, no token overlap. Only the allow-list can place it.
	c := naming.Normalize("EsiK_3_assignsubmission_file")
	mustMatch(t, m, c, testRoster(), "Esi Kaman", "known_unique_name")
}

func TestMatchKnownUniqueNameDisabled(t *testing.T) {
	cfg := match.DefaultConfig()
	cfg.KnownUniqueNames = []string{}
	m := match.New(cfg)
	c := naming.Normalize("EsiK_3_assignsubmission_file")
	if res := m.Match(c, testRoster()); res.Matched() {
		t.Errorf("empty allow-list still matched %q via %s", res.Record.FullName, res.Strategy)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	m := match.New(match.DefaultConfig())
	if res := m.Match(naming.Candidate{}, testRoster()); res.Matched() {
		t.Error("empty candidate matched")
	}
	if res := m.Match(naming.Normalize("John Smith_1_assignsubmission_file"), nil); res.Matched() {
		t.Error("empty roster matched")
	}
}

func TestMatchShortCircuits(t *testing.T) {
	m := match.New(match.DefaultConfig())
	// "Mary Major" would also clear token overlap and fuzzy, but the exact
	// strategy must win and be the one reported.
	res := m.Match(naming.Candidate{FullName: "mary major"}, testRoster())
	if !res.Matched() || res.Strategy != "exact_full_name" {
		t.Errorf("strategy = %q, want exact_full_name", res.Strategy)
	}
}

func TestMatchZeroConfigUsesDefaults(t *testing.T) {
	m := match.New(match.Config{})
	c := naming.Normalize("JonSmith_7_assignsubmission_file")
	mustMatch(t, m, c, testRoster(), "John Smith", "fuzzy_similarity")
}
