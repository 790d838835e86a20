// Package gradebook parses uploaded Moodle gradebook CSV files and writes
// them back out with grade and feedback cells replaced in place.
package gradebook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Warning is a non-fatal issue found while parsing one row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// File is a parsed gradebook: the header row, all data rows in source order,
// and any row-level warnings. Rows keep their original column order so an
// export can reproduce the file with only designated cells changed.
type File struct {
	Headers  []string   `json:"headers"`
	Rows     [][]string `json:"rows"`
	Warnings []Warning  `json:"warnings,omitempty"`
	Encoding string     `json:"encoding"`
}

// Parse decodes and parses gradebook CSV bytes. Real-world exports are
// messy, so quoting is lax, rows with too few columns are padded, rows with
// too many are truncated, and both cases are reported as warnings rather
// than errors.
func Parse(data []byte) (*File, error) {
	decoded, encName, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row found")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	f := &File{Headers: headers, Encoding: encName}
	rowNum := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			f.Warnings = append(f.Warnings, Warning{Row: rowNum, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}
		if len(row) < len(headers) {
			f.Warnings = append(f.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), len(headers)),
			})
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		} else if len(row) > len(headers) {
			f.Warnings = append(f.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), len(headers)),
			})
			row = row[:len(headers)]
		}
		f.Rows = append(f.Rows, row)
	}

	if len(f.Rows) == 0 {
		return nil, errors.New("file contains no data rows")
	}
	return f, nil
}
