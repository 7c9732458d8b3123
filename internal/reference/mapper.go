package reference

import (
	"context"
	"fmt"

	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/textnorm"
)

// Mapper turns raw tables into typed records using the configured column
// names. Header names are matched case-insensitively after trimming.
type Mapper struct {
	tables config.TablesConfig
}

// NewMapper creates a mapper for the given table layout.
func NewMapper(tables config.TablesConfig) *Mapper {
	return &Mapper{tables: tables}
}

// Tables returns the layout the mapper was built with.
func (m *Mapper) Tables() config.TablesConfig {
	return m.tables
}

// LoadQA fetches and maps the question/answer table.
func (m *Mapper) LoadQA(ctx context.Context, src Source) ([]QARecord, error) {
	t, err := src.FetchTable(ctx, m.tables.QA.Name)
	if err != nil {
		return nil, NewSourceError("fetch", m.tables.QA.Name, err)
	}
	return m.QA(t)
}

// LoadLeadership fetches and maps the leadership roster.
func (m *Mapper) LoadLeadership(ctx context.Context, src Source) ([]LeadershipRecord, error) {
	t, err := src.FetchTable(ctx, m.tables.Leadership.Name)
	if err != nil {
		return nil, NewSourceError("fetch", m.tables.Leadership.Name, err)
	}
	return m.Leadership(t)
}

// LoadSubstations fetches and maps the substation list.
func (m *Mapper) LoadSubstations(ctx context.Context, src Source) ([]SubstationRecord, error) {
	t, err := src.FetchTable(ctx, m.tables.Substation.Name)
	if err != nil {
		return nil, NewSourceError("fetch", m.tables.Substation.Name, err)
	}
	return m.Substations(t)
}

// QA maps a table to question/answer records. Rows with a blank question
// are skipped.
func (m *Mapper) QA(t *Table) ([]QARecord, error) {
	cols := indexColumns(t.Columns)
	qi, err := requireColumn(t, cols, m.tables.QA.QuestionColumn)
	if err != nil {
		return nil, err
	}
	ai, err := requireColumn(t, cols, m.tables.QA.AnswerColumn)
	if err != nil {
		return nil, err
	}

	out := make([]QARecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		q := cell(row, qi)
		if q == "" {
			continue
		}
		out = append(out, QARecord{Question: q, Answer: cell(row, ai)})
	}
	return out, nil
}

// Leadership maps a table to leadership records.
func (m *Mapper) Leadership(t *Table) ([]LeadershipRecord, error) {
	lc := m.tables.Leadership
	cols := indexColumns(t.Columns)
	ri, err := requireColumn(t, cols, lc.RegionColumn)
	if err != nil {
		return nil, err
	}
	ni := optionalColumn(cols, lc.NameColumn)
	pi := optionalColumn(cols, lc.PositionColumn)
	phi := optionalColumn(cols, lc.PhoneColumn)

	out := make([]LeadershipRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, LeadershipRecord{
			Region:   cell(row, ri),
			Name:     cell(row, ni),
			Position: cell(row, pi),
			Phone:    cell(row, phi),
			Cells:    cells(t.Columns, row),
		})
	}
	return out, nil
}

// Substations maps a table to substation records.
func (m *Mapper) Substations(t *Table) ([]SubstationRecord, error) {
	sc := m.tables.Substation
	cols := indexColumns(t.Columns)
	fi, err := requireColumn(t, cols, sc.FeederColumn)
	if err != nil {
		return nil, err
	}
	ni := optionalColumn(cols, sc.NameColumn)

	out := make([]SubstationRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, SubstationRecord{
			FeederID: cell(row, fi),
			Name:     cell(row, ni),
			Cells:    cells(t.Columns, row),
		})
	}
	return out, nil
}

func indexColumns(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		key := textnorm.Fold(c)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func requireColumn(t *Table, cols map[string]int, name string) (int, error) {
	if i, ok := cols[textnorm.Fold(name)]; ok {
		return i, nil
	}
	return -1, &SourceError{
		Table: t.Name,
		Op:    "map",
		Err:   fmt.Errorf("%w: %s", ErrMissingColumn, name),
	}
}

func optionalColumn(cols map[string]int, name string) int {
	if name == "" {
		return -1
	}
	if i, ok := cols[textnorm.Fold(name)]; ok {
		return i
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func cells(columns []string, row []string) []Cell {
	out := make([]Cell, len(columns))
	for i, c := range columns {
		out[i] = Cell{Column: c, Value: cell(row, i)}
	}
	return out
}
