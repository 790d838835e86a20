package roster_test

import (
	"testing"

	"github.com/grade-mate/grademate/internal/roster"
)

func TestBuildRecords(t *testing.T) {
	headers := []string{"First name", "Last name", "ID number", "Email address", "Grade"}
	rows := [][]string{
		{"John", "Smith", "1001", "john@uni.edu", "90"},
		{" Mary ", "Major", "1002", "mary@uni.edu", ""},
	}
	roles := roster.ClassifyHeaders(headers)

	recs := roster.BuildRecords(headers, rows, roles)
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].FullName != "John Smith" {
		t.Errorf("FullName = %q, want %q", recs[0].FullName, "John Smith")
	}
	if recs[0].Identifier != "1001" || recs[0].Email != "john@uni.edu" {
		t.Errorf("identifier/email = %q/%q", recs[0].Identifier, recs[0].Email)
	}
	// Cells are trimmed in the structured fields but kept verbatim in
	// OriginalRow.
	if recs[1].FirstName != "Mary" {
		t.Errorf("FirstName = %q, want %q", recs[1].FirstName, "Mary")
	}
	if recs[1].OriginalRow["First name"] != " Mary " {
		t.Errorf("OriginalRow cell = %q, want untrimmed", recs[1].OriginalRow["First name"])
	}
}

func TestBuildRecordsShortRow(t *testing.T) {
	headers := []string{"First name", "Last name", "Email address"}
	rows := [][]string{{"Ana"}}
	roles := roster.ClassifyHeaders(headers)

	recs := roster.BuildRecords(headers, rows, roles)
	if recs[0].LastName != "" || recs[0].Email != "" {
		t.Errorf("missing cells should read empty, got last=%q email=%q", recs[0].LastName, recs[0].Email)
	}
	if recs[0].OriginalRow["Email address"] != "" {
		t.Errorf("OriginalRow pads missing cells with empty, got %q", recs[0].OriginalRow["Email address"])
	}
	if recs[0].FullName != "Ana" {
		t.Errorf("FullName = %q, want %q", recs[0].FullName, "Ana")
	}
}

func TestBuildRecordsFullNameFallbacks(t *testing.T) {
	headers := []string{"ID number", "Grade"}
	roles := roster.ClassifyHeaders(headers)

	recs := roster.BuildRecords(headers, [][]string{
		{"stu-42", "80"},
		{"", ""},
	}, roles)
	if recs[0].FullName != "stu-42" {
		t.Errorf("FullName = %q, want identifier fallback", recs[0].FullName)
	}
	if recs[1].FullName != "Student 2" {
		t.Errorf("FullName = %q, want %q", recs[1].FullName, "Student 2")
	}
}

func TestBuildRecordsEmpty(t *testing.T) {
	recs := roster.BuildRecords([]string{"Name"}, nil, roster.EmptyRoleMap())
	if len(recs) != 0 {
		t.Errorf("len = %d, want 0", len(recs))
	}
}
