// Package reference defines the read-only reference tables the engine
// answers from and the boundary that maps raw tabular data onto them.
package reference

import "context"

// Table is the raw shape every data source returns: a header row and string
// cells. Rows shorter than the header are padded by the source.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Source fetches a named table. Every failure is returned as a *SourceError.
type Source interface {
	FetchTable(ctx context.Context, name string) (*Table, error)
}

// Cell is one named value from a source row, kept in header order so a
// record can be displayed the way it was stored.
type Cell struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// QARecord is one canonical question with its answer.
type QARecord struct {
	Question string
	Answer   string
}

// LeadershipRecord is one row of the commune/ward leadership roster.
type LeadershipRecord struct {
	Region   string
	Name     string
	Position string
	Phone    string
	Cells    []Cell
}

// SubstationRecord is one substation attached to a feeder line.
type SubstationRecord struct {
	FeederID string
	Name     string
	Cells    []Cell
}

// Questions returns the question column of qa in order.
func Questions(qa []QARecord) []string {
	out := make([]string, len(qa))
	for i, r := range qa {
		out[i] = r.Question
	}
	return out
}

// DistinctRegions returns the region values of rows in first-seen order.
func DistinctRegions(rows []LeadershipRecord) []string {
	seen := make(map[string]struct{}, len(rows))
	var out []string
	for _, r := range rows {
		if r.Region == "" {
			continue
		}
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	return out
}
