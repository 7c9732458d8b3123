package dispatch

import (
	"context"

	"github.com/spherical-ai/hoidap/internal/reference"
)

// LeadershipProvider returns the leadership roster.
type LeadershipProvider interface {
	Leadership(ctx context.Context) ([]reference.LeadershipRecord, error)
}

// SubstationProvider returns the substation list.
type SubstationProvider interface {
	Substations(ctx context.Context) ([]reference.SubstationRecord, error)
}

// LeadershipFunc adapts a function to LeadershipProvider.
type LeadershipFunc func(ctx context.Context) ([]reference.LeadershipRecord, error)

func (f LeadershipFunc) Leadership(ctx context.Context) ([]reference.LeadershipRecord, error) {
	return f(ctx)
}

// SubstationFunc adapts a function to SubstationProvider.
type SubstationFunc func(ctx context.Context) ([]reference.SubstationRecord, error)

func (f SubstationFunc) Substations(ctx context.Context) ([]reference.SubstationRecord, error) {
	return f(ctx)
}

// Tables is the data a Dispatcher answers from. QA and Samples are
// snapshots; the lookup tables are reached through providers so they can
// be fetched on first use.
type Tables struct {
	QA          []reference.QARecord
	Samples     []string
	Leadership  LeadershipProvider
	Substations SubstationProvider
}

// StaticLeadership serves a fixed roster.
func StaticLeadership(rows []reference.LeadershipRecord) LeadershipProvider {
	return LeadershipFunc(func(context.Context) ([]reference.LeadershipRecord, error) {
		return rows, nil
	})
}

// StaticSubstations serves a fixed substation list.
func StaticSubstations(rows []reference.SubstationRecord) SubstationProvider {
	return SubstationFunc(func(context.Context) ([]reference.SubstationRecord, error) {
		return rows, nil
	})
}
