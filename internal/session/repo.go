package session

import (
	"context"
	"errors"

	"github.com/grade-mate/grademate/internal/roster"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

type Store interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, owner string) ([]Session, error)

	// SetGradebook records the uploaded file's blob key, its headers and the
	// classified role map on the session.
	SetGradebook(ctx context.Context, id, blobKey string, headers []string, roles roster.ColumnRoleMap) error
	// SetRoles replaces the role map alone (manual column override).
	SetRoles(ctx context.Context, id string, roles roster.ColumnRoleMap) error

	ReplaceStudents(ctx context.Context, id string, students []Student) error
	ListStudents(ctx context.Context, id string) ([]Student, error)
	SetGrade(ctx context.Context, id string, rowIndex int, grade, feedback *string) error

	ReplaceSubmissions(ctx context.Context, id string, subs []Submission) error
	ListSubmissions(ctx context.Context, id string) ([]Submission, error)
	SetMatch(ctx context.Context, id, folder string, matchedRow *int, strategy string, manual bool) error
}
