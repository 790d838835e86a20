package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/grade-mate/grademate/internal/roster"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) CreateSession(ctx context.Context, sess Session) error {
	rj, err := json.Marshal(sess.Roles)
	if err != nil {
		return err
	}
	hj, _ := json.Marshal(sess.Headers)
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions (id,owner,title,gradebook_key,headers_json,roles_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		sess.ID, sess.Owner, sess.Title, sess.GradebookKey, string(hj), string(rj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,owner,title,gradebook_key,headers_json,roles_json,created_at FROM sessions WHERE id=$1`, id)
	var sess Session
	var hj, rj string
	if err := row.Scan(&sess.ID, &sess.Owner, &sess.Title, &sess.GradebookKey, &hj, &rj, &sess.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(hj), &sess.Headers); err != nil {
		sess.Headers = nil
	}
	sess.Roles = roster.EmptyRoleMap()
	if err := json.Unmarshal([]byte(rj), &sess.Roles); err != nil {
		sess.Roles = roster.EmptyRoleMap()
	}
	return sess, nil
}

func (s *SQLStore) ListSessions(ctx context.Context, owner string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,owner,title,created_at FROM sessions WHERE owner=$1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Owner, &sess.Title, &sess.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetGradebook(ctx context.Context, id, blobKey string, headers []string, roles roster.ColumnRoleMap) error {
	hj, _ := json.Marshal(headers)
	rj, _ := json.Marshal(roles)
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET gradebook_key=$1, headers_json=$2, roles_json=$3 WHERE id=$4`,
		blobKey, string(hj), string(rj), id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSessionNotFound)
}

func (s *SQLStore) SetRoles(ctx context.Context, id string, roles roster.ColumnRoleMap) error {
	rj, _ := json.Marshal(roles)
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET roles_json=$1 WHERE id=$2`, string(rj), id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSessionNotFound)
}

func (s *SQLStore) ReplaceStudents(ctx context.Context, id string, students []Student) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE session_id=$1`, id); err != nil {
		return err
	}
	for _, st := range students {
		buf, err := json.Marshal(st.Record)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO students (session_id,row_index,record_json,grade,feedback) VALUES ($1,$2,$3,$4,$5)`,
			id, st.RowIndex, string(buf), st.Grade, st.Feedback); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListStudents(ctx context.Context, id string) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index,record_json,grade,feedback FROM students WHERE session_id=$1 ORDER BY row_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Student
	for rows.Next() {
		var st Student
		var buf string
		if err := rows.Scan(&st.RowIndex, &buf, &st.Grade, &st.Feedback); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(buf), &st.Record); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetGrade(ctx context.Context, id string, rowIndex int, grade, feedback *string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE students SET grade=COALESCE($1,grade), feedback=COALESCE($2,feedback) WHERE session_id=$3 AND row_index=$4`,
		grade, feedback, id, rowIndex)
	if err != nil {
		return err
	}
	return requireRow(res, ErrStudentNotFound)
}

func (s *SQLStore) ReplaceSubmissions(ctx context.Context, id string, subs []Submission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE session_id=$1`, id); err != nil {
		return err
	}
	for _, sub := range subs {
		cj, err := json.Marshal(sub.Candidate)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO submissions (session_id,folder,candidate_json,matched_row,strategy,manual) VALUES ($1,$2,$3,$4,$5,$6)`,
			id, sub.Folder, string(cj), sub.MatchedRow, sub.Strategy, sub.Manual); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListSubmissions(ctx context.Context, id string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT folder,candidate_json,matched_row,strategy,manual FROM submissions WHERE session_id=$1 ORDER BY folder`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Submission
	for rows.Next() {
		var sub Submission
		var cj string
		if err := rows.Scan(&sub.Folder, &cj, &sub.MatchedRow, &sub.Strategy, &sub.Manual); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cj), &sub.Candidate); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetMatch(ctx context.Context, id, folder string, matchedRow *int, strategy string, manual bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET matched_row=$1, strategy=$2, manual=$3 WHERE session_id=$4 AND folder=$5`,
		matchedRow, strategy, manual, id, folder)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSubmissionNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
