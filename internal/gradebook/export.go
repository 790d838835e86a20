package gradebook

import (
	"bytes"
	"encoding/csv"

	"github.com/grade-mate/grademate/internal/roster"
)

// GradeUpdate replaces the grade and/or feedback cell of one row. The Has
// flags distinguish "set to empty" from "leave untouched".
type GradeUpdate struct {
	Grade       string
	Feedback    string
	HasGrade    bool
	HasFeedback bool
}

// FeedbackHeader is the column appended on export when the source file had
// no feedback column to write into.
const FeedbackHeader = "Feedback comments"

// Export re-serializes a parsed gradebook with grade/feedback cells replaced
// per row (keyed by row position in f.Rows). Header order and every
// untouched cell are carried over from the source verbatim. If feedback is
// being written but no feedback column was resolved, one is appended as the
// last column.
func Export(f *File, roles roster.ColumnRoleMap, updates map[int]GradeUpdate) ([]byte, error) {
	appendFeedback := roles.Feedback == roster.NotFound && anyFeedback(updates)

	headers := f.Headers
	if appendFeedback {
		headers = append(append([]string{}, f.Headers...), FeedbackHeader)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for i, row := range f.Rows {
		out := append([]string{}, row...)
		if appendFeedback {
			out = append(out, "")
		}
		if u, ok := updates[i]; ok {
			if u.HasGrade && roles.Grade != roster.NotFound && roles.Grade < len(out) {
				out[roles.Grade] = u.Grade
			}
			if u.HasFeedback {
				switch {
				case roles.Feedback != roster.NotFound && roles.Feedback < len(out):
					out[roles.Feedback] = u.Feedback
				case appendFeedback:
					out[len(out)-1] = u.Feedback
				}
			}
		}
		if err := w.Write(out); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func anyFeedback(updates map[int]GradeUpdate) bool {
	for _, u := range updates {
		if u.HasFeedback {
			return true
		}
	}
	return false
}
