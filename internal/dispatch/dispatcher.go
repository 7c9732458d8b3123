// Package dispatch routes a free-text question to the Q&A table, a lookup
// table or a sample-question suggestion and returns the outcome as a Response.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/extract"
	"github.com/spherical-ai/hoidap/internal/fuzzy"
	"github.com/spherical-ai/hoidap/internal/observability"
	"github.com/spherical-ai/hoidap/internal/reference"
	"github.com/spherical-ai/hoidap/internal/textnorm"
)

// Options control routing.
type Options struct {
	LeadershipKeywords []string
	SubstationKeywords []string
	FeederKeywords     []string
	// Regions is the gazetteer that, with a leadership keyword, selects the
	// leadership lookup.
	Regions             []string
	LegacyRegionPattern bool
	// FallbackOnNoOp lets a declined substation query continue to the
	// sample-question suggestion.
	FallbackOnNoOp bool
	Threshold      float64
	Matcher        *fuzzy.Matcher
}

// DefaultOptions returns routing options built from the default config.
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.DefaultConfig())
	return opts
}

// OptionsFromConfig builds routing options from cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	matcher, err := fuzzy.NewMatcher(fuzzy.Algorithm(cfg.Matching.Algorithm))
	if err != nil {
		return Options{}, err
	}
	return Options{
		LeadershipKeywords:  cfg.Intents.LeadershipKeywords,
		SubstationKeywords:  cfg.Intents.SubstationKeywords,
		FeederKeywords:      cfg.Intents.FeederKeywords,
		Regions:             cfg.Intents.Regions,
		LegacyRegionPattern: cfg.Intents.LegacyRegionPattern,
		FallbackOnNoOp:      cfg.Intents.FallbackOnNoOp,
		Threshold:           cfg.Matching.Threshold,
		Matcher:             matcher,
	}, nil
}

// Dispatcher answers questions from a fixed set of tables. It holds no
// mutable state; the same question against the same tables always yields
// the same Response.
type Dispatcher struct {
	tables    Tables
	questions []string
	opts      Options
	regions   *extract.RegionExtractor
	logger    *observability.Logger
}

// New creates a dispatcher over tables.
func New(tables Tables, opts Options, logger *observability.Logger) *Dispatcher {
	if logger == nil {
		logger = observability.Nop()
	}
	if opts.Matcher == nil {
		opts.Matcher, _ = fuzzy.NewMatcher(fuzzy.AlgorithmSequence)
	}
	if opts.Threshold <= 0 {
		opts.Threshold = fuzzy.DefaultThreshold
	}
	return &Dispatcher{
		tables:    tables,
		questions: reference.Questions(tables.QA),
		opts:      opts,
		regions:   extract.NewRegionExtractor(opts.LegacyRegionPattern),
		logger:    logger.WithOperation("dispatch"),
	}
}

// Samples returns the sample questions.
func (d *Dispatcher) Samples() []string {
	return d.tables.Samples
}

// Dispatch routes question:
//
//  1. a fuzzy hit on the Q&A questions answers it;
//  2. a leadership keyword with a region mention goes to the leadership lookup;
//  3. a substation keyword goes to the substation lookup;
//  4. a fuzzy hit on the sample questions is offered as a suggestion.
//
// A blank question is a NoOp.
func (d *Dispatcher) Dispatch(ctx context.Context, question string) Response {
	start := time.Now()
	resp := d.route(ctx, question)

	d.logger.Debug().
		Str("question", question).
		Str("intent", string(resp.Intent)).
		Str("kind", string(resp.Kind)).
		Dur("latency", time.Since(start)).
		Msg("Question dispatched")

	return resp
}

func (d *Dispatcher) route(ctx context.Context, question string) Response {
	if textnorm.Fold(question) == "" {
		return NoOp(IntentNone)
	}

	if i, _, ok := d.opts.Matcher.MatchIndex(question, d.questions, d.opts.Threshold); ok {
		return Answer(d.tables.QA[i].Answer)
	}

	if d.isLeadershipQuery(question) {
		return d.leadership(ctx, question)
	}

	if textnorm.ContainsAny(question, d.opts.SubstationKeywords) {
		resp := d.substations(ctx, question)
		if resp.Handled() || !d.opts.FallbackOnNoOp {
			return resp
		}
	}

	if s, ok := d.opts.Matcher.Match(question, d.tables.Samples, d.opts.Threshold); ok {
		return NearMiss(s)
	}
	return NoMatch()
}

func (d *Dispatcher) isLeadershipQuery(question string) bool {
	if !textnorm.ContainsAny(question, d.opts.LeadershipKeywords) {
		return false
	}
	if textnorm.ContainsAny(question, d.opts.Regions) {
		return true
	}
	_, ok := d.regions.Phrase(question)
	return ok
}

func errorf(format string, err error) string {
	return fmt.Sprintf(format, err)
}
