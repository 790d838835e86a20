package roster_test

import (
	"testing"

	"github.com/grade-mate/grademate/internal/roster"
)

func TestClassifyHeadersMoodleEnglish(t *testing.T) {
	headers := []string{
		"First name", "Last name", "ID number", "Email address", "Status",
		"Grade", "Maximum grade", "Grade can be changed",
		"Last modified (submission)", "Feedback comments",
	}
	m := roster.ClassifyHeaders(headers)

	if m.FirstName != 0 {
		t.Errorf("FirstName = %d, want 0", m.FirstName)
	}
	if m.LastName != 1 {
		t.Errorf("LastName = %d, want 1", m.LastName)
	}
	if m.StudentID != 2 {
		t.Errorf("StudentID = %d, want 2", m.StudentID)
	}
	if m.Email != 3 {
		t.Errorf("Email = %d, want 3", m.Email)
	}
	if m.Grade != 5 {
		t.Errorf("Grade = %d, want 5", m.Grade)
	}
	if m.Feedback != 9 {
		t.Errorf("Feedback = %d, want 9", m.Feedback)
	}
	// "First name" must not be claimed as the full-name column just because
	// it contains "name".
	if m.FullName != roster.NotFound {
		t.Errorf("FullName = %d, want NotFound", m.FullName)
	}
	if !m.HasNameColumns() {
		t.Error("HasNameColumns() = false, want true")
	}
}

func TestClassifyHeadersFrench(t *testing.T) {
	headers := []string{
		"Prénom", "Nom de famille", "Numéro d'identification",
		"Adresse de courriel", "Note", "Commentaire",
	}
	m := roster.ClassifyHeaders(headers)

	if m.FirstName != 0 {
		t.Errorf("FirstName = %d, want 0", m.FirstName)
	}
	if m.LastName != 1 {
		t.Errorf("LastName = %d, want 1", m.LastName)
	}
	if m.Grade != 4 {
		t.Errorf("Grade = %d, want 4", m.Grade)
	}
	if m.Feedback != 5 {
		t.Errorf("Feedback = %d, want 5", m.Feedback)
	}
	// "courriel" carries no "mail" substring; the French export simply has no
	// resolvable email column.
	if m.Email != roster.NotFound {
		t.Errorf("Email = %d, want NotFound", m.Email)
	}
}

func TestClassifyHeadersFullNameOnly(t *testing.T) {
	m := roster.ClassifyHeaders([]string{"Name", "Grade"})
	if m.FullName != 0 {
		t.Errorf("FullName = %d, want 0", m.FullName)
	}
	if m.FirstName != roster.NotFound {
		t.Errorf("FirstName = %d, want NotFound", m.FirstName)
	}
	if m.LastName != roster.NotFound {
		t.Errorf("LastName = %d, want NotFound", m.LastName)
	}
	if m.Grade != 1 {
		t.Errorf("Grade = %d, want 1", m.Grade)
	}
}

func TestClassifyHeadersHeuristicFallback(t *testing.T) {
	// Neither header is in any variant table; "first" and "surname" still
	// resolve via substring/token fallbacks.
	m := roster.ClassifyHeaders([]string{"Participant first", "Participant surname"})
	if m.FirstName != 0 {
		t.Errorf("FirstName = %d, want 0", m.FirstName)
	}
	if m.LastName != 1 {
		t.Errorf("LastName = %d, want 1", m.LastName)
	}
}

func TestClassifyHeadersAssignmentColumnAsGrade(t *testing.T) {
	m := roster.ClassifyHeaders([]string{"First name", "Last name", "Assignment: Project 1 (Real)"})
	if m.Grade != 2 {
		t.Errorf("Grade = %d, want 2", m.Grade)
	}
}

func TestClassifyHeadersEmpty(t *testing.T) {
	m := roster.ClassifyHeaders(nil)
	if m != roster.EmptyRoleMap() {
		t.Errorf("ClassifyHeaders(nil) = %+v, want all NotFound", m)
	}
	if m.HasNameColumns() {
		t.Error("HasNameColumns() = true for empty map")
	}
}

func TestClassifyHeadersDeterministic(t *testing.T) {
	headers := []string{"First name", "Last name", "Email address", "Grade"}
	first := roster.ClassifyHeaders(headers)
	for i := 0; i < 50; i++ {
		if got := roster.ClassifyHeaders(headers); got != first {
			t.Fatalf("run %d: classification changed: %+v vs %+v", i, got, first)
		}
	}
}

func TestWithNameOverride(t *testing.T) {
	m := roster.ClassifyHeaders([]string{"col_a", "col_b", "Grade"})
	m = m.WithNameOverride(0, 1)
	if m.FirstName != 0 || m.LastName != 1 {
		t.Errorf("override not applied: %+v", m)
	}
	// NotFound on one side leaves that side untouched.
	m = m.WithNameOverride(roster.NotFound, 0)
	if m.FirstName != 0 {
		t.Errorf("FirstName = %d, want 0 (untouched)", m.FirstName)
	}
	if m.LastName != 0 {
		t.Errorf("LastName = %d, want 0", m.LastName)
	}
}
