package submission_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/grade-mate/grademate/internal/submission"
)

func buildZip(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(files[name])); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestListEntries(t *testing.T) {
	order := []string{
		"Jane Doe_123_assignsubmission_file/essay.pdf",
		"Jane Doe_123_assignsubmission_file/notes.txt",
		"Smith, Bob_77_onlinetext_html/onlinetext.html",
		"__MACOSX/Jane Doe_123_assignsubmission_file/._essay.pdf",
		"Jane Doe_123_assignsubmission_file/.DS_Store",
	}
	files := map[string]string{}
	for _, n := range order {
		files[n] = "x"
	}
	data := buildZip(t, files, order)

	entries, err := submission.ListEntries(data)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2: %+v", len(entries), entries)
	}
	if entries[0].Name != "Jane Doe_123_assignsubmission_file" {
		t.Errorf("entries[0].Name = %q", entries[0].Name)
	}
	if len(entries[0].Files) != 2 || entries[0].Files[0] != "essay.pdf" || entries[0].Files[1] != "notes.txt" {
		t.Errorf("entries[0].Files = %v", entries[0].Files)
	}
	if entries[1].Name != "Smith, Bob_77_onlinetext_html" {
		t.Errorf("entries[1].Name = %q", entries[1].Name)
	}
}

func TestListEntriesLooseRootFile(t *testing.T) {
	data := buildZip(t, map[string]string{"John Smith_9.pdf": "x"}, []string{"John Smith_9.pdf"})
	entries, err := submission.ListEntries(data)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Name != "John Smith_9" {
		t.Errorf("Name = %q, want extension stripped", entries[0].Name)
	}
	if len(entries[0].Files) != 1 || entries[0].Files[0] != "John Smith_9.pdf" {
		t.Errorf("Files = %v", entries[0].Files)
	}
}

func TestListEntriesPreservesFirstAppearanceOrder(t *testing.T) {
	order := []string{
		"Zed Last_2_assignsubmission_file/a.txt",
		"Amy First_1_assignsubmission_file/b.txt",
		"Zed Last_2_assignsubmission_file/c.txt",
	}
	files := map[string]string{}
	for _, n := range order {
		files[n] = "x"
	}
	entries, err := submission.ListEntries(buildZip(t, files, order))
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Zed Last_2_assignsubmission_file" || entries[1].Name != "Amy First_1_assignsubmission_file" {
		t.Errorf("entries = %+v, want Zed before Amy", entries)
	}
	if len(entries[0].Files) != 2 {
		t.Errorf("Zed files = %v", entries[0].Files)
	}
}

func TestListEntriesBadArchive(t *testing.T) {
	if _, err := submission.ListEntries([]byte("not a zip")); err == nil {
		t.Error("want error for corrupt archive")
	}
}
