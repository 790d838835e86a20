// Package session ties one grading run together: an uploaded gradebook, a
// submissions ZIP, the folder-to-student matches, and the instructor's
// grade/feedback edits.
package session

import (
	"github.com/grade-mate/grademate/internal/naming"
	"github.com/grade-mate/grademate/internal/roster"
)

type Session struct {
	ID           string               `json:"id"`
	Owner        string               `json:"owner"`
	Title        string               `json:"title,omitempty"`
	GradebookKey string               `json:"gradebook_key,omitempty"` // blob-store key
	Headers      []string             `json:"headers,omitempty"`
	Roles        roster.ColumnRoleMap `json:"roles"`
	CreatedAt    int64                `json:"created_at"`
}

// Student is one roster entry plus any grade/feedback the instructor has
// recorded. RowIndex is the row's position in the source CSV; the exporter
// keys cell replacement on it.
type Student struct {
	RowIndex int                  `json:"row_index"`
	Record   roster.StudentRecord `json:"record"`
	Grade    *string              `json:"grade,omitempty"`
	Feedback *string              `json:"feedback,omitempty"`
}

// Submission is one extracted folder with its normalized candidate name and
// match outcome. MatchedRow is nil when no roster entry was found. Manual is
// set when the instructor overrode (or hand-assigned) the match.
type Submission struct {
	Folder     string           `json:"folder"`
	Candidate  naming.Candidate `json:"candidate"`
	MatchedRow *int             `json:"matched_row,omitempty"`
	Strategy   string           `json:"strategy,omitempty"`
	Manual     bool             `json:"manual,omitempty"`
}
