// Package roster resolves student identities against the university
// roster workbook. The file is re-read on every lookup so the office can
// swap it without restarting the bot.
package roster

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/langsoc/coursebot/core/logger"
	"github.com/langsoc/coursebot/internal/domain"
)

const logComponent = "service.roster"

// Options locates the workbook and maps its columns by spreadsheet letter.
type Options struct {
	Path             string
	Sheet            string
	StudentIDColumn  string
	NationalIDColumn string
	FirstNameColumn  string
	LastNameColumn   string
}

// Student is a single roster row.
type Student struct {
	StudentID string
	FirstName string
	LastName  string
}

// Roster reads identities from an xlsx workbook.
type Roster struct {
	opts Options

	studentIDCol  int
	nationalIDCol int
	firstNameCol  int
	lastNameCol   int
}

// New validates the column mapping up front so a bad config fails at
// startup rather than mid-conversation.
func New(opts Options) (*Roster, error) {
	r := &Roster{opts: opts}
	for _, col := range []struct {
		letter string
		dst    *int
	}{
		{opts.StudentIDColumn, &r.studentIDCol},
		{opts.NationalIDColumn, &r.nationalIDCol},
		{opts.FirstNameColumn, &r.firstNameCol},
		{opts.LastNameColumn, &r.lastNameCol},
	} {
		n, err := excelize.ColumnNameToNumber(col.letter)
		if err != nil {
			return nil, fmt.Errorf("roster column %q: %w", col.letter, domain.ErrValidation)
		}
		*col.dst = n - 1
	}
	return r, nil
}

// Find looks up an identifier against both the student-id and the
// national-id columns. Returns domain.ErrNotFound when no row matches
// and domain.ErrTransient when the workbook cannot be read.
func (r *Roster) Find(ctx context.Context, identifier string) (Student, error) {
	want := normalizeCell(identifier)

	f, err := excelize.OpenFile(r.opts.Path)
	if err != nil {
		logger.Error(ctx, logComponent, "roster.open",
			slog.String("path", r.opts.Path),
			slog.String("err", err.Error()),
		)
		return Student{}, fmt.Errorf("open roster %s: %v: %w", r.opts.Path, err, domain.ErrTransient)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(r.opts.Sheet)
	if err != nil {
		logger.Error(ctx, logComponent, "roster.read",
			slog.String("sheet", r.opts.Sheet),
			slog.String("err", err.Error()),
		)
		return Student{}, fmt.Errorf("read roster sheet %s: %v: %w", r.opts.Sheet, err, domain.ErrTransient)
	}

	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		studentID := normalizeCell(cell(row, r.studentIDCol))
		nationalID := normalizeCell(cell(row, r.nationalIDCol))
		if want == "" || (want != studentID && want != nationalID) {
			continue
		}
		return Student{
			StudentID: studentID,
			FirstName: strings.TrimSpace(cell(row, r.firstNameCol)),
			LastName:  strings.TrimSpace(cell(row, r.lastNameCol)),
		}, nil
	}

	logger.Debug(ctx, logComponent, "roster.miss",
		slog.Int("rows", len(rows)),
	)
	return Student{}, fmt.Errorf("roster lookup: %w", domain.ErrNotFound)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeCell trims whitespace and drops the ".0" tail spreadsheets
// append to ids stored as numbers.
func normalizeCell(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimSuffix(v, ".0")
}
