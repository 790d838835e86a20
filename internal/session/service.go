package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/grade-mate/grademate/internal/gradebook"
	"github.com/grade-mate/grademate/internal/match"
	"github.com/grade-mate/grademate/internal/naming"
	"github.com/grade-mate/grademate/internal/roster"
	"github.com/grade-mate/grademate/internal/storage"
	"github.com/grade-mate/grademate/internal/submission"
	syncx "github.com/grade-mate/grademate/internal/sync"
)

// Service runs the grading pipeline on top of a Store: parse gradebook →
// classify headers → build roster; list ZIP folders → normalize names →
// match; record grades; export. HTTP handlers and the CLI both drive it.
type Service struct {
	store   Store
	blobs   storage.BlobStore
	matcher *match.Matcher
	events  *syncx.EventRepo
}

func NewService(store Store, blobs storage.BlobStore, matcher *match.Matcher, events *syncx.EventRepo) *Service {
	if matcher == nil {
		matcher = match.New(match.DefaultConfig())
	}
	return &Service{store: store, blobs: blobs, matcher: matcher, events: events}
}

// Create starts an empty session owned by the authenticated instructor.
func (s *Service) Create(ctx context.Context, owner, title string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     title,
		Roles:     roster.EmptyRoleMap(),
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// GradebookResult is what an upload (or a role override) reports back to the
// caller: the classification outcome, the rebuilt roster, and parser
// warnings the UI should surface.
type GradebookResult struct {
	Roles    roster.ColumnRoleMap `json:"roles"`
	Headers  []string             `json:"headers"`
	Students []Student            `json:"students"`
	Warnings []gradebook.Warning  `json:"warnings,omitempty"`
}

// ImportGradebook parses uploaded gradebook bytes, classifies its headers,
// builds the roster and persists everything. The raw bytes go to the blob
// store so Export can reproduce the file later.
func (s *Service) ImportGradebook(ctx context.Context, sessionID string, data []byte) (*GradebookResult, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	f, err := gradebook.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse gradebook: %w", err)
	}
	roles := roster.ClassifyHeaders(f.Headers)

	key := "sessions/" + sessionID + "/gradebook.csv"
	if _, err := s.blobs.Put(key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store gradebook: %w", err)
	}
	if err := s.store.SetGradebook(ctx, sessionID, key, f.Headers, roles); err != nil {
		return nil, err
	}

	students := buildStudents(f, roles)
	if err := s.store.ReplaceStudents(ctx, sessionID, students); err != nil {
		return nil, err
	}
	s.logEvent(ctx, sessionID, syncx.EventGradebookUploaded, key, map[string]any{"rows": len(f.Rows)})

	return &GradebookResult{Roles: roles, Headers: f.Headers, Students: students, Warnings: f.Warnings}, nil
}

// OverrideRoles applies a manual first/last column selection, re-reads the
// stored gradebook and rebuilds the roster from the updated role map. Any
// match results are recomputed against the new records.
func (s *Service) OverrideRoles(ctx context.Context, sessionID string, first, last int) (*GradebookResult, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.GradebookKey == "" {
		return nil, fmt.Errorf("session %s has no gradebook", sessionID)
	}
	roles := sess.Roles.WithNameOverride(first, last)
	if err := s.store.SetRoles(ctx, sessionID, roles); err != nil {
		return nil, err
	}

	f, err := s.loadGradebook(sess)
	if err != nil {
		return nil, err
	}
	students := buildStudents(f, roles)

	// Rebuilding records must not drop grades already entered.
	if prev, err := s.store.ListStudents(ctx, sessionID); err == nil {
		byRow := make(map[int]Student, len(prev))
		for _, st := range prev {
			byRow[st.RowIndex] = st
		}
		for i := range students {
			if old, ok := byRow[students[i].RowIndex]; ok {
				students[i].Grade = old.Grade
				students[i].Feedback = old.Feedback
			}
		}
	}

	if err := s.store.ReplaceStudents(ctx, sessionID, students); err != nil {
		return nil, err
	}
	if err := s.rematch(ctx, sessionID, students); err != nil {
		return nil, err
	}
	s.logEvent(ctx, sessionID, syncx.EventRolesOverridden, "", roles)

	return &GradebookResult{Roles: roles, Headers: f.Headers, Students: students, Warnings: f.Warnings}, nil
}

// ImportSubmissions lists the ZIP's top-level folders, normalizes each name
// and matches it against the session roster. Results are persisted and
// returned in one pass; unmatched folders come back with a nil MatchedRow
// rather than failing the batch.
func (s *Service) ImportSubmissions(ctx context.Context, sessionID string, zipBytes []byte) ([]Submission, error) {
	students, err := s.store.ListStudents(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries, err := submission.ListEntries(zipBytes)
	if err != nil {
		return nil, fmt.Errorf("read submissions zip: %w", err)
	}

	key := "sessions/" + sessionID + "/submissions.zip"
	if _, err := s.blobs.Put(key, bytes.NewReader(zipBytes)); err != nil {
		return nil, fmt.Errorf("store submissions: %w", err)
	}

	records := studentRecords(students)
	subs := make([]Submission, 0, len(entries))
	for _, e := range entries {
		cand := naming.Normalize(e.Name)
		sub := Submission{Folder: e.Name, Candidate: cand}
		if res := s.matcher.Match(cand, records); res.Matched() {
			row := rowIndexOf(students, records, res.Record)
			sub.MatchedRow = &row
			sub.Strategy = res.Strategy
		}
		subs = append(subs, sub)
	}
	if err := s.store.ReplaceSubmissions(ctx, sessionID, subs); err != nil {
		return nil, err
	}
	s.logEvent(ctx, sessionID, syncx.EventSubmissionsUploaded, key, map[string]any{"folders": len(subs)})
	return subs, nil
}

// OverrideMatch assigns (or clears, with a nil row) a folder's student by
// hand. Manual assignments survive rematches.
func (s *Service) OverrideMatch(ctx context.Context, sessionID, folder string, matchedRow *int) error {
	if err := s.store.SetMatch(ctx, sessionID, folder, matchedRow, "manual", true); err != nil {
		return err
	}
	s.logEvent(ctx, sessionID, syncx.EventMatchOverridden, folder, matchedRow)
	return nil
}

// SetGrade records a grade and/or feedback for a roster row. Nil leaves the
// corresponding field untouched.
func (s *Service) SetGrade(ctx context.Context, sessionID string, rowIndex int, grade, feedback *string) error {
	if err := s.store.SetGrade(ctx, sessionID, rowIndex, grade, feedback); err != nil {
		return err
	}
	s.logEvent(ctx, sessionID, syncx.EventGradeSet, fmt.Sprintf("%d", rowIndex), map[string]any{
		"grade": grade, "feedback": feedback,
	})
	return nil
}

// Export re-reads the original gradebook bytes and writes recorded grades
// and feedback into their source columns. Every untouched cell passes
// through verbatim.
func (s *Service) Export(ctx context.Context, sessionID string) ([]byte, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.GradebookKey == "" {
		return nil, fmt.Errorf("session %s has no gradebook", sessionID)
	}
	f, err := s.loadGradebook(sess)
	if err != nil {
		return nil, err
	}
	students, err := s.store.ListStudents(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[int]gradebook.GradeUpdate)
	for _, st := range students {
		var u gradebook.GradeUpdate
		if st.Grade != nil {
			u.Grade, u.HasGrade = *st.Grade, true
		}
		if st.Feedback != nil {
			u.Feedback, u.HasFeedback = *st.Feedback, true
		}
		if u.HasGrade || u.HasFeedback {
			updates[st.RowIndex] = u
		}
	}

	out, err := gradebook.Export(f, sess.Roles, updates)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, sessionID, syncx.EventExported, sess.GradebookKey, map[string]any{"updates": len(updates)})
	return out, nil
}

func (s *Service) loadGradebook(sess Session) (*gradebook.File, error) {
	rc, err := s.blobs.Get(sess.GradebookKey)
	if err != nil {
		return nil, fmt.Errorf("load gradebook: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return gradebook.Parse(data)
}

// rematch re-runs the cascade for every non-manual submission after the
// roster changed.
func (s *Service) rematch(ctx context.Context, sessionID string, students []Student) error {
	subs, err := s.store.ListSubmissions(ctx, sessionID)
	if err != nil {
		return err
	}
	records := studentRecords(students)
	for _, sub := range subs {
		if sub.Manual {
			continue
		}
		var row *int
		strategy := ""
		if res := s.matcher.Match(sub.Candidate, records); res.Matched() {
			r := rowIndexOf(students, records, res.Record)
			row = &r
			strategy = res.Strategy
		}
		if err := s.store.SetMatch(ctx, sessionID, sub.Folder, row, strategy, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) logEvent(ctx context.Context, sessionID, typ, key string, data any) {
	if s.events == nil {
		return
	}
	buf, _ := json.Marshal(data)
	// best effort; an audit failure must not fail the operation
	_ = s.events.Append(ctx, syncx.Event{SessionID: sessionID, Type: typ, Key: key, DataJSON: string(buf)})
}

func buildStudents(f *gradebook.File, roles roster.ColumnRoleMap) []Student {
	records := roster.BuildRecords(f.Headers, f.Rows, roles)
	students := make([]Student, len(records))
	for i, rec := range records {
		students[i] = Student{RowIndex: i, Record: rec}
	}
	return students
}

func studentRecords(students []Student) []roster.StudentRecord {
	records := make([]roster.StudentRecord, len(students))
	for i, st := range students {
		records[i] = st.Record
	}
	return records
}

// rowIndexOf maps a matched record pointer back to its student's row index.
// The matcher returns a pointer into the records slice, so identity is the
// slice position.
func rowIndexOf(students []Student, records []roster.StudentRecord, rec *roster.StudentRecord) int {
	for i := range records {
		if &records[i] == rec {
			return students[i].RowIndex
		}
	}
	return -1
}
