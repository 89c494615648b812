package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
)

// ErrMissingColumn is returned when an import file lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// EntryRow is one parsed line of an import file. Err is set when the line
// could not be turned into an entry; such lines are reported, not fatal.
type EntryRow struct {
	Err   error
	Entry model.ActivityEntry
	Line  int
}

// ReadEntries parses a CSV file of activities. The header must name
// category, quantity and unit columns; variant and description are optional
// and any other column (such as those of an export) is ignored.
// Values are not priced here; the ledger decides what it accepts.
func ReadEntries(r io.Reader) ([]EntryRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"category", "quantity", "unit"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []EntryRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line, _ := cr.FieldPos(0)
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rows = append(rows, EntryRow{Line: parseErr.Line, Err: err})
				continue
			}
			return rows, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		row := EntryRow{Line: line}
		row.Entry, row.Err = parseEntry(
			field(record, "category"),
			field(record, "quantity"),
			field(record, "unit"),
			field(record, "variant"),
			field(record, "description"),
		)
		rows = append(rows, row)
	}

	return rows, nil
}

func parseEntry(category, quantity, unit, variant, description string) (model.ActivityEntry, error) {
	c, err := model.ParseCategory(category)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("%w: %w", footprint.ErrUnknownCategory, err)
	}
	u, err := model.ParseUnit(unit)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("%w: %w", footprint.ErrInvalidUnit, err)
	}
	q, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("%w: %q is not a number", footprint.ErrInvalidQuantity, quantity)
	}
	return model.ActivityEntry{
		Category:    c,
		Unit:        u,
		Variant:     variant,
		Description: description,
		Quantity:    q,
	}, nil
}
