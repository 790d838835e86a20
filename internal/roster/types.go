package roster

// NotFound is the sentinel index for a column role that could not be resolved.
const NotFound = -1

// ColumnRoleMap maps semantic gradebook roles to column indices in the header
// row. Unresolved roles hold NotFound. Indices are positions in the original
// header slice; the CSV exporter relies on them to write grades back into the
// exact source columns.
type ColumnRoleMap struct {
	FirstName int `json:"first_name"`
	LastName  int `json:"last_name"`
	FullName  int `json:"full_name"`
	StudentID int `json:"student_id"`
	Email     int `json:"email"`
	Grade     int `json:"grade"`
	Feedback  int `json:"feedback"`
}

// EmptyRoleMap returns a ColumnRoleMap with every role unresolved.
func EmptyRoleMap() ColumnRoleMap {
	return ColumnRoleMap{
		FirstName: NotFound,
		LastName:  NotFound,
		FullName:  NotFound,
		StudentID: NotFound,
		Email:     NotFound,
		Grade:     NotFound,
		Feedback:  NotFound,
	}
}

// WithNameOverride replaces the first/last name indices with caller-chosen
// columns. Pass NotFound to leave a side untouched. The returned map is the
// single source of truth for record building and export; there is no separate
// manual-selection code path downstream.
func (m ColumnRoleMap) WithNameOverride(first, last int) ColumnRoleMap {
	if first != NotFound {
		m.FirstName = first
	}
	if last != NotFound {
		m.LastName = last
	}
	return m
}

// HasNameColumns reports whether at least one of full/first/last name resolved.
func (m ColumnRoleMap) HasNameColumns() bool {
	return m.FullName != NotFound || m.FirstName != NotFound || m.LastName != NotFound
}

// StudentRecord is one gradebook row in structured form. OriginalRow keeps
// every source cell verbatim (keyed by header) so an export can change only
// grade/feedback cells and pass everything else through untouched.
type StudentRecord struct {
	Identifier  string            `json:"identifier"`
	FullName    string            `json:"full_name"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	Email       string            `json:"email,omitempty"`
	OriginalRow map[string]string `json:"original_row,omitempty"`
}
