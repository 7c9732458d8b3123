// Package session holds the tables for one run of the assistant and answers
// questions against them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/dispatch"
	"github.com/spherical-ai/hoidap/internal/observability"
	"github.com/spherical-ai/hoidap/internal/reference"
)

// ErrDataSource matches every *DataSourceError.
var ErrDataSource = errors.New("data source unavailable")

// DataSourceError means the session could not load the tables it needs to
// start.
type DataSourceError struct {
	Message string
	Err     error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[data_source] %s: %v", e.Message, e.Err)
	}
	return "[data_source] " + e.Message
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDataSource) true for any DataSourceError.
func (e *DataSourceError) Is(target error) bool {
	return target == ErrDataSource
}

// Session answers questions from one set of reference tables. The Q&A table
// and sample questions are loaded by Open; the lookup tables are fetched on
// first use and kept for the life of the session. A Session is safe for
// concurrent use.
type Session struct {
	id         string
	dispatcher *dispatch.Dispatcher
	logger     *observability.Logger

	leadership  memo[reference.LeadershipRecord]
	substations memo[reference.SubstationRecord]
}

// Open loads the Q&A table and sample questions and returns a ready session.
// Any load failure is a *DataSourceError.
func Open(ctx context.Context, src reference.Source, cfg *config.Config, logger *observability.Logger) (*Session, error) {
	if logger == nil {
		logger = observability.Nop()
	}
	id := uuid.NewString()
	log := logger.WithSession(id)
	start := time.Now()

	opts, err := dispatch.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build dispatch options: %w", err)
	}

	samples, err := reference.LoadSampleQuestions(cfg.Samples.Path)
	if err != nil {
		return nil, &DataSourceError{Message: "load sample questions", Err: err}
	}

	mapper := reference.NewMapper(cfg.Tables)
	qa, err := mapper.LoadQA(ctx, src)
	if err != nil {
		return nil, &DataSourceError{Message: "load question table", Err: err}
	}

	s := &Session{
		id:     id,
		logger: log,
		leadership: memo[reference.LeadershipRecord]{
			load: func(ctx context.Context) ([]reference.LeadershipRecord, error) {
				return mapper.LoadLeadership(ctx, src)
			},
		},
		substations: memo[reference.SubstationRecord]{
			load: func(ctx context.Context) ([]reference.SubstationRecord, error) {
				return mapper.LoadSubstations(ctx, src)
			},
		},
	}

	s.dispatcher = dispatch.New(dispatch.Tables{
		QA:          qa,
		Samples:     samples,
		Leadership:  dispatch.LeadershipFunc(s.leadership.get),
		Substations: dispatch.SubstationFunc(s.substations.get),
	}, opts, log)

	log.Info().
		Int("questions", len(qa)).
		Int("samples", len(samples)).
		Dur("duration", time.Since(start)).
		Msg("Session opened")

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Ask answers one question.
func (s *Session) Ask(ctx context.Context, question string) dispatch.Response {
	return s.dispatcher.Dispatch(ctx, question)
}

// Samples returns the sample questions.
func (s *Session) Samples() []string {
	return s.dispatcher.Samples()
}

// memo fetches rows once and keeps them. A failed fetch is not kept, so the
// next call retries.
type memo[T any] struct {
	mu     sync.Mutex
	rows   []T
	loaded bool
	load   func(ctx context.Context) ([]T, error)
}

func (m *memo[T]) get(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.rows, nil
	}
	rows, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	m.rows, m.loaded = rows, true
	return rows, nil
}
