// Package rosterfile loads the student roster from the per-grade class
// lists exported by the school secretariat (one CSV per grade, sheet name
// embedded in the file name).
package rosterfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLUMN NAMES
// ══════════════════════════════════════════════════════════════════════════════

// Column headers as they appear in the exported sheets. The code column
// exists with two spellings across export batches, both are accepted.
const (
	colFullName            = "APELLIDOS Y NOMBRES"
	colCode                = "Código modular (SIAGE)"
	colCodeAlt             = "codigo modular (SIAGE)"
	colEnrollmentPending   = "Matrícula pendiente"
	colInstallmentsPending = "Pensiones pendientes"
	colInstallmentPending  = "Pensión pendiente"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOADER
// ══════════════════════════════════════════════════════════════════════════════

// Loader reads class-list CSV files into a roster.Slice.
type Loader struct {
	log *logger.Logger
}

// NewLoader creates a loader. A nil logger falls back to the default.
func NewLoader(log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Default()
	}
	return &Loader{log: log}
}

// LoadFiles reads every listed file in order and concatenates the records.
// Files that do not exist are skipped with a warning, matching the
// best-effort behavior expected during partial exports. Load order is
// preserved so that first-match code lookups stay deterministic.
func (l *Loader) LoadFiles(paths []string) (roster.Slice, error) {
	var students roster.Slice
	seen := make(map[string]string) // code -> file it first appeared in

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				l.log.Warn("roster file missing, skipping",
					logger.String("file", path))
				continue
			}
			return nil, fmt.Errorf("rosterfile: open %s: %w", path, err)
		}

		grade := gradeFromFileName(path)
		loaded, err := l.readFile(f, grade, path, seen)
		f.Close()
		if err != nil {
			return nil, err
		}

		students = append(students, loaded...)
		l.log.Info("roster file loaded",
			logger.String("file", filepath.Base(path)),
			logger.Grade(grade),
			logger.Int("students", len(loaded)))
	}

	return students, nil
}

// LoadDir loads every .csv file in the directory, sorted by name.
func (l *Loader) LoadDir(dir string) (roster.Slice, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("rosterfile: list %s: %w", dir, err)
	}
	return l.LoadFiles(matches)
}

func (l *Loader) readFile(r io.Reader, grade, path string, seen map[string]string) (roster.Slice, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports sometimes carry ragged trailing columns
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("rosterfile: read header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var students roster.Slice
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rosterfile: read row of %s: %w", path, err)
		}

		s := parseRecord(record, cols, grade)
		if s.FullName == "" && s.Code == "" {
			continue // blank filler row
		}

		if s.Code != "" {
			if first, dup := seen[s.Code]; dup {
				l.log.Warn("duplicate student code, keeping first occurrence",
					logger.StudentCode(s.Code),
					logger.String("first_file", first),
					logger.String("file", filepath.Base(path)))
			} else {
				seen[s.Code] = filepath.Base(path)
			}
		}

		students = append(students, s)
	}

	return students, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PARSING HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func parseRecord(record []string, cols map[string]int, grade string) roster.Student {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	code := field(colCode)
	if code == "" {
		code = field(colCodeAlt)
	}

	_, hasNumeric := cols[colInstallmentsPending]

	return roster.Student{
		FullName:             field(colFullName),
		Grade:                grade,
		Code:                 code,
		EnrollmentFeePending: isAffirmativeCell(field(colEnrollmentPending)),
		PendingInstallments:  parseInstallments(field(colInstallmentsPending), hasNumeric, field(colInstallmentPending)),
	}
}

// parseInstallments prefers the numeric column; older export batches carry
// only a yes/no single-installment column instead. Precedence follows the
// column header, not the cell: a present numeric column with a blank or
// unparsable cell yields 0 and never falls back to the yes/no column.
func parseInstallments(numeric string, hasNumeric bool, yesNo string) int {
	if hasNumeric {
		if n, err := strconv.Atoi(numeric); err == nil && n >= 0 {
			return n
		}
		return 0
	}
	if isAffirmativeCell(yesNo) {
		return 1
	}
	return 0
}

func isAffirmativeCell(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "sí" || value == "si"
}

// gradeFromFileName extracts the grade label from the export naming scheme
// "<workbook>.xlsx - <grade>.csv". A file without the separator keeps its
// base name (minus extension) as the label.
func gradeFromFileName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.LastIndex(base, " - "); i >= 0 {
		return base[i+len(" - "):]
	}
	return base
}
