// Package match assigns normalized submission names to gradebook students.
//
// Matching runs an ordered cascade of strategies from most to least precise.
// Each strategy either returns exactly one record or defers to the next; the
// first to return wins and later strategies are never evaluated. Scores are
// only compared within a strategy, never across strategies.
package match

import (
	"strings"

	"github.com/grade-mate/grademate/internal/naming"
	"github.com/grade-mate/grademate/internal/roster"
)

// Config carries the tunable knobs of the cascade. The thresholds are the
// empirically chosen values from production use; change them and matching
// behavior changes in ways the heuristics make no promise about.
type Config struct {
	// MinTokenOverlap is the smallest shared-token count the overlap
	// strategy accepts.
	MinTokenOverlap int
	// FuzzyThreshold is the similarity score a fuzzy match must exceed.
	FuzzyThreshold float64
	// KnownUniqueNames is an allow-list of distinctive name tokens that can
	// resolve a candidate on their own when exactly one roster entry shares
	// the token. Institutional knowledge, injected rather than baked in.
	KnownUniqueNames []string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinTokenOverlap:  1,
		FuzzyThreshold:   0.5,
		KnownUniqueNames: []string{"esi", "jediah", "beatrice", "miaoen", "hayeon"},
	}
}

// Result is the outcome for one candidate: a read-only reference to the
// matched roster record, or nil for no match. Strategy names the rule that
// fired, for diagnostics only.
type Result struct {
	Record   *roster.StudentRecord
	Strategy string
}

// Matched reports whether a roster record was found.
func (r Result) Matched() bool { return r.Record != nil }

type strategyFunc func(m *Matcher, c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord

type strategy struct {
	name string
	fn   strategyFunc
}

// Matcher runs the cascade. Safe for concurrent use: it holds only
// configuration and never mutates candidates or rosters.
type Matcher struct {
	cfg        Config
	strategies []strategy
}

// New builds a Matcher with the given config. Zero-valued fields fall back
// to the defaults.
func New(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.MinTokenOverlap <= 0 {
		cfg.MinTokenOverlap = def.MinTokenOverlap
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if cfg.KnownUniqueNames == nil {
		cfg.KnownUniqueNames = def.KnownUniqueNames
	}
	return &Matcher{
		cfg: cfg,
		strategies: []strategy{
			{"exact_full_name", (*Matcher).exactFullName},
			{"first_last_exact", (*Matcher).firstLastExact},
			{"raw_comma_format", (*Matcher).rawCommaFormat},
			{"unique_first_name", (*Matcher).uniqueFirstName},
			{"token_overlap", (*Matcher).tokenOverlap},
			{"fuzzy_similarity", (*Matcher).fuzzySimilarity},
			{"initials", (*Matcher).initials},
			{"known_unique_name", (*Matcher).knownUniqueName},
		},
	}
}

// Match selects the single best roster record for a candidate, or returns a
// no-match Result. Empty candidate names and empty rosters short out
// immediately; no input ever causes an error.
func (m *Matcher) Match(c naming.Candidate, records []roster.StudentRecord) Result {
	if strings.TrimSpace(c.FullName) == "" || len(records) == 0 {
		return Result{}
	}
	for _, s := range m.strategies {
		if rec := s.fn(m, c, records); rec != nil {
			return Result{Record: rec, Strategy: s.name}
		}
	}
	return Result{}
}

// 1. Exact full-name match, case-insensitive and trimmed.
func (m *Matcher) exactFullName(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	want := strings.TrimSpace(c.FullName)
	for i := range records {
		if strings.EqualFold(want, strings.TrimSpace(records[i].FullName)) {
			return &records[i]
		}
	}
	return nil
}

// 2. Both first and last name present on the candidate and equal to the
// roster record's fields.
func (m *Matcher) firstLastExact(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	if c.FirstName == "" || c.LastName == "" {
		return nil
	}
	for i := range records {
		if strings.EqualFold(c.FirstName, records[i].FirstName) &&
			strings.EqualFold(c.LastName, records[i].LastName) {
			return &records[i]
		}
	}
	return nil
}

// 3. "Last, First" read straight off the raw pre-normalization string. A
// safety net for candidates whose normalization reordered unexpectedly.
func (m *Matcher) rawCommaFormat(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	comma := strings.Index(c.RawSource, ",")
	if comma < 0 {
		return nil
	}
	last := cleanRawPart(c.RawSource[:comma])
	first := cleanRawPart(c.RawSource[comma+1:])
	if first == "" || last == "" {
		return nil
	}
	for i := range records {
		if strings.EqualFold(first, records[i].FirstName) &&
			strings.EqualFold(last, records[i].LastName) {
			return &records[i]
		}
	}
	return nil
}

// cleanRawPart trims a raw comma-split fragment down to its name portion,
// dropping packaging junk from the first underscore on.
func cleanRawPart(s string) string {
	if idx := strings.Index(s, "_"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// 4. Unique first name, with last-name containment as the tie-breaker when
// several students share the first name.
func (m *Matcher) uniqueFirstName(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	first := c.FirstName
	if first == "" {
		first = firstToken(c.FullName)
	}
	if first == "" {
		return nil
	}
	var hits []*roster.StudentRecord
	for i := range records {
		rf := records[i].FirstName
		if rf == "" {
			rf = firstToken(records[i].FullName)
		}
		if strings.EqualFold(first, rf) {
			hits = append(hits, &records[i])
		}
	}
	if len(hits) == 1 {
		return hits[0]
	}
	if len(hits) > 1 {
		full := strings.ToLower(c.FullName)
		for _, h := range hits {
			if h.LastName != "" && strings.Contains(full, strings.ToLower(h.LastName)) {
				return h
			}
		}
	}
	return nil
}

// 5. Shared whitespace-token count; the strictly best overlap wins, earlier
// roster order breaks ties.
func (m *Matcher) tokenOverlap(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	cand := tokenSet(c.FullName)
	if len(cand) == 0 {
		return nil
	}
	best := -1
	bestCount := 0
	for i := range records {
		count := 0
		for _, t := range tokenSet(records[i].FullName) {
			for _, ct := range cand {
				if t == ct {
					count++
					break
				}
			}
		}
		if count > bestCount {
			bestCount = count
			best = i
		}
	}
	if best >= 0 && bestCount >= m.cfg.MinTokenOverlap {
		return &records[best]
	}
	return nil
}

// 6. Fuzzy similarity over alphanumeric-only lowercase forms. Substring
// containment scores shorter/longer; otherwise 1 - editDistance/maxLen.
func (m *Matcher) fuzzySimilarity(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	cand := squash(c.FullName)
	if cand == "" {
		return nil
	}
	best := -1
	bestScore := 0.0
	for i := range records {
		score := similarity(cand, squash(records[i].FullName))
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best >= 0 && bestScore > m.cfg.FuzzyThreshold {
		return &records[best]
	}
	return nil
}

// similarity scores two squashed names in [0,1].
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	maxLen := len(longer)
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// 7. Initials: single-letter (optionally dotted) candidate tokens matched
// against the starts of roster name tokens. Only an unambiguous hit counts.
func (m *Matcher) initials(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	var initials []string
	for _, t := range tokenSet(c.FullName) {
		t = strings.TrimSuffix(t, ".")
		if len(t) == 1 && t[0] >= 'a' && t[0] <= 'z' {
			initials = append(initials, t)
		}
	}
	if len(initials) == 0 {
		return nil
	}
	var hit *roster.StudentRecord
	for i := range records {
		qualifies := false
		for _, t := range tokenSet(records[i].FullName) {
			for _, in := range initials {
				if strings.HasPrefix(t, in) {
					qualifies = true
				}
			}
		}
		if qualifies {
			if hit != nil {
				return nil // ambiguous
			}
			hit = &records[i]
		}
	}
	return hit
}

// 8. Allow-listed distinctive tokens; accepted only when exactly one roster
// record shares the token with the candidate.
func (m *Matcher) knownUniqueName(c naming.Candidate, records []roster.StudentRecord) *roster.StudentRecord {
	full := strings.ToLower(c.FullName)
	for _, known := range m.cfg.KnownUniqueNames {
		known = strings.ToLower(known)
		if known == "" || !strings.Contains(full, known) {
			continue
		}
		var hit *roster.StudentRecord
		ambiguous := false
		for i := range records {
			if strings.Contains(strings.ToLower(records[i].FullName), known) {
				if hit != nil {
					ambiguous = true
					break
				}
				hit = &records[i]
			}
		}
		if hit != nil && !ambiguous {
			return hit
		}
	}
	return nil
}

func firstToken(s string) string {
	f := strings.Fields(strings.TrimSpace(s))
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

func tokenSet(s string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(s)))
}

// squash lowercases and drops every non-alphanumeric rune.
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
