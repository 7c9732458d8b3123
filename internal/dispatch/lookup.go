package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spherical-ai/hoidap/internal/extract"
	"github.com/spherical-ai/hoidap/internal/reference"
	"github.com/spherical-ai/hoidap/internal/textnorm"
)

var errNoProvider = errors.New("table not configured")

// leadership lists the leaders of the region named in question.
func (d *Dispatcher) leadership(ctx context.Context, question string) Response {
	if d.tables.Leadership == nil {
		return Error(IntentLeadership, errorf(MsgLeadershipError, errNoProvider), errNoProvider)
	}

	rows, err := d.tables.Leadership.Leadership(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Leadership lookup failed")
		return Error(IntentLeadership, errorf(MsgLeadershipError, err), err)
	}

	region, ok := d.regions.Region(question, reference.DistinctRegions(rows))
	if !ok {
		return Warning(IntentLeadership, MsgRegionNotIdentified)
	}

	var matched []reference.LeadershipRecord
	for _, r := range rows {
		if strings.Contains(textnorm.Upper(r.Region), region) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return Warning(IntentLeadership, fmt.Sprintf(MsgNoLeadership, region))
	}

	cells := make([][]reference.Cell, len(matched))
	for i, r := range matched {
		cells[i] = r.Cells
	}
	columns, values := tabulate(cells)
	return TableResult(IntentLeadership, fmt.Sprintf(MsgLeadershipTitle, region), columns, values)
}

// substations lists the substations on the feeder line named in question.
// Without a feeder keyword or a feeder id the question is declined.
func (d *Dispatcher) substations(ctx context.Context, question string) Response {
	if !textnorm.ContainsAny(question, d.opts.FeederKeywords) {
		return NoOp(IntentSubstation)
	}
	feeder, ok := extract.FeederID(question)
	if !ok {
		return NoOp(IntentSubstation)
	}

	if d.tables.Substations == nil {
		return Error(IntentSubstation, errorf(MsgSubstationError, errNoProvider), errNoProvider)
	}

	rows, err := d.tables.Substations.Substations(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Str("feeder", feeder).Msg("Substation lookup failed")
		return Error(IntentSubstation, errorf(MsgSubstationError, err), err)
	}

	var cells [][]reference.Cell
	for _, r := range rows {
		if strings.Contains(strings.ToUpper(r.FeederID), feeder) {
			cells = append(cells, r.Cells)
		}
	}
	if len(cells) == 0 {
		return Warning(IntentSubstation, fmt.Sprintf(MsgNoSubstation, feeder))
	}

	columns, values := tabulate(cells)
	return TableResult(IntentSubstation, fmt.Sprintf(MsgSubstationTitle, feeder), columns, values)
}

// tabulate lays out record cells as a header and rows. The header comes from
// the first record; records are expected to share it.
func tabulate(records [][]reference.Cell) ([]string, [][]string) {
	if len(records) == 0 {
		return nil, nil
	}
	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = c.Column
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		for j := range columns {
			if j < len(rec) {
				row[j] = rec[j].Value
			}
		}
		rows[i] = row
	}
	return columns, rows
}
