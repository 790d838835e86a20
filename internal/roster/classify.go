package roster

import "strings"

// Header variant tables, listed in priority order. Moodle localizes gradebook
// exports, so each role carries the spellings seen in English, French,
// Spanish, German and Polish exports plus the common squashed forms.
var (
	firstNameVariants = []string{
		"first name", "firstname", "first_name", "given name", "givenname",
		"prénom", "prenom", "nombre", "vorname", "imię", "imie",
	}
	lastNameVariants = []string{
		"last name", "lastname", "last_name", "surname", "family name",
		"familyname", "nom de famille", "nom", "apellido", "apellidos",
		"nachname", "familienname", "nazwisko",
	}
	fullNameVariants = []string{
		"full name", "fullname", "full_name", "student name", "studentname",
		"nom complet", "nombre completo", "vollständiger name",
		"imię i nazwisko", "name",
	}
	gradeVariants = []string{
		"grade", "mark", "score", "points", "note", "nota", "punkte",
		"ocena", "assignment",
	}
	feedbackVariants = []string{
		"feedback comments", "feedback", "comments", "comment",
		"commentaire", "comentario", "kommentar", "komentarz",
	}
)

// ClassifyHeaders maps raw gradebook column headers to semantic roles.
//
// Per role the cascade is: exact trimmed case-insensitive match against the
// variant list, then substring match (variants in priority order), then
// reverse substring (variant contains the header, for abbreviated headers),
// and for first/last name only a final token heuristic. The first rule to
// fire wins; unresolved roles stay NotFound. The function never panics:
// empty or duplicate headers are simply headers that fail to match.
func ClassifyHeaders(headers []string) ColumnRoleMap {
	m := EmptyRoleMap()
	if len(headers) == 0 {
		return m
	}

	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	// The two literals below are the most common and most reliable signal in
	// Moodle exports, so they are checked ahead of the generic cascade.
	for i, h := range lowered {
		if m.FirstName == NotFound && (h == "first name" || h == "firstname") {
			m.FirstName = i
		}
		if m.LastName == NotFound && (h == "last name" || h == "lastname") {
			m.LastName = i
		}
	}

	// An exact full-name header ("Name", "Full name") must not be claimed by
	// the first/last reverse-substring pass, so it is resolved up front and
	// masked out of the first/last cascade.
	fullExact := NotFound
	for i, h := range lowered {
		if fullExact != NotFound {
			break
		}
		for _, v := range fullNameVariants {
			if h == v {
				fullExact = i
				break
			}
		}
	}

	if m.FirstName == NotFound {
		m.FirstName = classifyRole(lowered, firstNameVariants, []int{fullExact})
	}
	if m.LastName == NotFound {
		m.LastName = classifyRole(lowered, lastNameVariants, []int{fullExact})
	}
	// A first/last column must not double as the full-name column ("First
	// name" contains "name"), so those indices are masked out here.
	m.FullName = classifyRole(lowered, fullNameVariants, []int{m.FirstName, m.LastName})
	m.Grade = classifyRole(lowered, gradeVariants, nil)
	m.Feedback = classifyRole(lowered, feedbackVariants, nil)

	// Token heuristic fallback, first/last name only.
	if m.FirstName == NotFound {
		for i, h := range lowered {
			if h == "" || i == m.FullName || strings.Contains(h, "last") {
				continue
			}
			if strings.Contains(h, "first") || strings.Contains(h, "name") {
				m.FirstName = i
				break
			}
		}
	}
	if m.LastName == NotFound {
		for i, h := range lowered {
			if strings.Contains(h, "last") || strings.Contains(h, "surname") || strings.Contains(h, "family") {
				m.LastName = i
				break
			}
		}
	}

	// Email and identifier are low-ambiguity: a single substring / token pass.
	for i, h := range lowered {
		if m.Email == NotFound && strings.Contains(h, "mail") {
			m.Email = i
		}
	}
	for i, h := range lowered {
		if m.StudentID != NotFound {
			break
		}
		if strings.Contains(h, "identifier") || strings.Contains(h, "username") || hasToken(h, "id") {
			m.StudentID = i
		}
	}

	return m
}

// classifyRole runs the exact / substring / reverse-substring cascade for one
// role and returns the matched header index or NotFound. Indices listed in
// exclude are never returned.
func classifyRole(lowered []string, variants []string, exclude []int) int {
	skip := func(i int) bool {
		for _, e := range exclude {
			if i == e {
				return true
			}
		}
		return false
	}
	for i, h := range lowered {
		if skip(i) {
			continue
		}
		for _, v := range variants {
			if h == v {
				return i
			}
		}
	}
	for _, v := range variants {
		for i, h := range lowered {
			if h != "" && !skip(i) && strings.Contains(h, v) {
				return i
			}
		}
	}
	// Reverse: an abbreviated header contained inside a variant ("surnam",
	// "prén"). Very short headers would match almost anything, so require
	// at least three characters.
	for _, v := range variants {
		for i, h := range lowered {
			if len(h) >= 3 && !skip(i) && strings.Contains(v, h) {
				return i
			}
		}
	}
	return NotFound
}

// hasToken reports whether s contains tok as a whole alphanumeric token.
func hasToken(s, tok string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	for _, f := range fields {
		if f == tok {
			return true
		}
	}
	return false
}
