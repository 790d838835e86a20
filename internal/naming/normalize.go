// Package naming turns raw Moodle submission folder/file names into clean
// candidate student names.
package naming

import (
	"regexp"
	"strings"
)

// Candidate is the normalized form of one submission folder name.
type Candidate struct {
	RawSource   string `json:"raw_source"`
	FullName    string `json:"full_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	SyntheticID string `json:"synthetic_id"`
}

// Moodle ZIP packaging artifacts. Suffix order matters: first match wins.
var (
	packagingSuffixes = []string{"_assignsubmission_", "_onlinetext_", "_file_"}
	semesterPrefixRe  = regexp.MustCompile(`^\d+[A-Za-z]{2}\s`)
	trailingIDRe      = regexp.MustCompile(`_(\d+)$`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
	nonAlnumRe        = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize converts a Moodle-style packaged folder or file name into a
// candidate name. It strips packaging suffixes, a leading semester code, and
// a trailing numeric ID (kept as SyntheticID), flattens separators, and
// splits the result into first/last components ("Last, First" is reordered).
//
// The function is pure. A blank input yields a Candidate with an empty
// FullName, which callers must treat as unmatchable.
func Normalize(raw string) Candidate {
	c := Candidate{RawSource: raw}

	s := raw
	for _, suffix := range packagingSuffixes {
		if idx := strings.Index(s, suffix); idx >= 0 {
			s = s[:idx]
			break
		}
	}
	s = semesterPrefixRe.ReplaceAllString(s, "")

	if m := trailingIDRe.FindStringSubmatch(s); m != nil {
		c.SyntheticID = m[1]
		s = strings.TrimSuffix(s, m[0])
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if comma := strings.Index(s, ","); comma >= 0 {
		// "Last, First" -> "First Last"
		last := strings.TrimSpace(s[:comma])
		first := strings.TrimSpace(s[comma+1:])
		c.FirstName = first
		c.LastName = last
		s = strings.TrimSpace(first + " " + last)
	} else if sp := strings.Index(s, " "); sp >= 0 {
		c.FirstName = s[:sp]
		c.LastName = s[sp+1:]
	}

	c.FullName = s
	if c.SyntheticID == "" {
		c.SyntheticID = SlugID(s)
	}
	return c
}

// SlugID derives a stable lowercase identifier from a name. Used when the
// folder name carried no numeric Moodle participant ID.
func SlugID(name string) string {
	s := nonAlnumRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
