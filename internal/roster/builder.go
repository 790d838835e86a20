package roster

import (
	"fmt"
	"strings"
)

// BuildRecords zips data rows with a ColumnRoleMap into StudentRecords.
// Rows shorter than the header row are treated as padded with empty cells.
// FullName is never left empty: it falls back to first+last, then to the
// identifier, then to a positional "Student N" placeholder.
func BuildRecords(headers []string, rows [][]string, roles ColumnRoleMap) []StudentRecord {
	records := make([]StudentRecord, 0, len(rows))
	for i, row := range rows {
		cell := func(idx int) string {
			if idx == NotFound || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		rec := StudentRecord{
			Identifier:  cell(roles.StudentID),
			FullName:    cell(roles.FullName),
			FirstName:   cell(roles.FirstName),
			LastName:    cell(roles.LastName),
			Email:       cell(roles.Email),
			OriginalRow: make(map[string]string, len(headers)),
		}
		for j, h := range headers {
			if j < len(row) {
				rec.OriginalRow[h] = row[j]
			} else {
				rec.OriginalRow[h] = ""
			}
		}

		if rec.FullName == "" {
			rec.FullName = strings.TrimSpace(rec.FirstName + " " + rec.LastName)
		}
		if rec.FullName == "" {
			rec.FullName = rec.Identifier
		}
		if rec.FullName == "" {
			rec.FullName = fmt.Sprintf("Student %d", i+1)
		}
		records = append(records, rec)
	}
	return records
}
