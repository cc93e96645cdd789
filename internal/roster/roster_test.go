package roster

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/langsoc/coursebot/internal/domain"
)

func writeFixture(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, val := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cellName, val); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "students.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

func newTestRoster(t *testing.T, path string) *Roster {
	t.Helper()
	r, err := New(Options{
		Path:             path,
		Sheet:            "Sheet1",
		StudentIDColumn:  "A",
		NationalIDColumn: "B",
		FirstNameColumn:  "C",
		LastNameColumn:   "D",
	})
	if err != nil {
		t.Fatalf("new roster: %v", err)
	}
	return r
}

func TestFindByStudentID(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"student_id", "national_id", "first_name", "last_name"},
		{"4001234", "0012345678", "Sara", "Ahmadi"},
		{"4005678", "0087654321", "Reza", "Karimi"},
	})
	r := newTestRoster(t, path)

	st, err := r.Find(context.Background(), "4005678")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if st.FirstName != "Reza" || st.LastName != "Karimi" {
		t.Fatalf("unexpected student %+v", st)
	}
	if st.StudentID != "4005678" {
		t.Fatalf("unexpected student id %q", st.StudentID)
	}
}

func TestFindByNationalID(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"student_id", "national_id", "first_name", "last_name"},
		{"4001234", "0012345678", "Sara", "Ahmadi"},
	})
	r := newTestRoster(t, path)

	st, err := r.Find(context.Background(), "0012345678")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if st.StudentID != "4001234" {
		t.Fatalf("expected roster student id, got %q", st.StudentID)
	}
}

func TestFindTrimsAndSkipsHeader(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"student_id", "national_id", "first_name", "last_name"},
		{" 4001234 ", "0012345678", "  Sara ", " Ahmadi "},
	})
	r := newTestRoster(t, path)

	st, err := r.Find(context.Background(), "4001234")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if st.FirstName != "Sara" || st.LastName != "Ahmadi" {
		t.Fatalf("names not trimmed: %+v", st)
	}

	// The header row must never match, even for its own cell values.
	if _, err := r.Find(context.Background(), "student_id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("header row matched: %v", err)
	}
}

func TestFindMiss(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"student_id", "national_id", "first_name", "last_name"},
		{"4001234", "0012345678", "Sara", "Ahmadi"},
	})
	r := newTestRoster(t, path)

	_, err := r.Find(context.Background(), "9999999")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindMissingFileIsTransient(t *testing.T) {
	r := newTestRoster(t, filepath.Join(t.TempDir(), "absent.xlsx"))

	_, err := r.Find(context.Background(), "4001234")
	if !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestNewRejectsBadColumn(t *testing.T) {
	_, err := New(Options{
		Path:             "students.xlsx",
		Sheet:            "Sheet1",
		StudentIDColumn:  "4",
		NationalIDColumn: "B",
		FirstNameColumn:  "C",
		LastNameColumn:   "D",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
