// Package roster reads the participant list of a gift exchange from CSV or
// Excel files. Each row holds name, group, email and an optional message.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/logger"
	"github.com/xuri/excelize/v2"

	"secretsanta/internal/models"
)

var (
	// ErrEmpty is returned when a roster file holds no usable rows.
	ErrEmpty = errors.New("roster has no participants")
	// ErrLineBreak is returned for a name, group or email holding a line break.
	ErrLineBreak = errors.New("line break in roster field")
)

// Validate rejects fields that end up in mail headers or output lines when
// they contain a line break.
func Validate(name, group, email string) error {
	fields := [][2]string{{"name", name}, {"group", group}, {"email", email}}
	for _, f := range fields {
		if strings.ContainsAny(f[1], "\r\n") {
			return fmt.Errorf("%w: %s %q", ErrLineBreak, f[0], f[1])
		}
	}
	return nil
}

// Load reads a roster from a .csv or .xlsx file.
func Load(path string) ([]*models.Participant, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open roster: %w", err)
		}
		defer file.Close()
		return Parse(file)
	case ".xlsx":
		return loadExcel(path)
	default:
		return nil, fmt.Errorf("unsupported roster file type: %q", ext)
	}
}

// Parse reads a CSV roster.
func Parse(r io.Reader) ([]*models.Participant, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return fromRows(rows)
}

func loadExcel(path string) ([]*models.Participant, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return fromRows(rows)
}

// fromRows turns raw rows into participants indexed in row order. A leading
// header row whose first cell is "name" is skipped. Names need not be unique;
// participants are told apart by index.
func fromRows(rows [][]string) ([]*models.Participant, error) {
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "name") {
		rows = rows[1:]
	}

	people := make([]*models.Participant, 0, len(rows))
	for line, record := range rows {
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if len(record) < 3 || record[0] == "" || record[1] == "" {
			logger.Warningf("Skipping malformed roster record %d: %v", line+1, record)
			continue
		}
		if err := Validate(record[0], record[1], record[2]); err != nil {
			return nil, fmt.Errorf("roster record %d: %w", line+1, err)
		}

		p := &models.Participant{
			Index: len(people),
			Name:  record[0],
			Group: record[1],
			Email: record[2],
		}
		if len(record) > 3 {
			p.Message = record[3]
		}
		people = append(people, p)
	}

	if len(people) == 0 {
		return nil, ErrEmpty
	}
	return people, nil
}
