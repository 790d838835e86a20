package syncx

import (
	"context"
	"database/sql"
	"time"
)

// Event is one append-only audit entry for a grading session: gradebook
// uploads, match overrides, grade edits, exports.
type Event struct {
	Seq       int64
	SessionID string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

const (
	EventGradebookUploaded   = "GradebookUploaded"
	EventSubmissionsUploaded = "SubmissionsUploaded"
	EventRolesOverridden     = "RolesOverridden"
	EventMatchOverridden     = "MatchOverridden"
	EventGradeSet            = "GradeSet"
	EventExported            = "Exported"
)

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (session_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SessionID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// ListBySession returns a session's events in append order, for the activity
// panel in the UI.
func (r *EventRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, session_id, typ, key, data, created_at FROM event_log
		 WHERE session_id=$1 ORDER BY seq LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SessionID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
