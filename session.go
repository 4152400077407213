package optimizer

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrSessionRestarted is delivered for a pipeline run whose session was
// restarted while the run was in flight. In-flight network calls are not
// aborted, but their results are discarded.
var ErrSessionRestarted = errors.New("session restarted, result discarded")

// Outcome is the completion notification of one background pipeline run.
type Outcome struct {
	Report *SituationReport
	Result *RecommendationResult
	Err    error
}

// Session ties the pipeline components together and tags every run with a
// generation number, so a "Restart" invalidates stale in-flight results.
// It holds no UI state: presentation, file writing and preference storage
// belong to the surrounding application.
type Session struct {
	Enricher  *Enricher
	Engine    *Engine
	Extractor *Extractor

	generation atomic.Uint64
}

func NewSession(enricher *Enricher, engine *Engine, extractor *Extractor) *Session {
	return &Session{Enricher: enricher, Engine: engine, Extractor: extractor}
}

// Generation returns the current session generation.
func (s *Session) Generation() uint64 { return s.generation.Load() }

// Restart bumps the generation: any run launched before this call delivers
// ErrSessionRestarted instead of its result.
func (s *Session) Restart() uint64 { return s.generation.Add(1) }

// Optimize runs the full enrichment-then-recommendation sequence on a
// background goroutine and delivers exactly one Outcome on the returned
// channel. The caller polls or blocks on the channel; it never stalls the
// interactive surface.
func (s *Session) Optimize(ctx context.Context, positions []Position, baseCurrency string, prefs Preferences, preferredModel string, priority []string) <-chan Outcome {
	return s.run(func() Outcome {
		enrichment, err := s.Enricher.Enrich(ctx, positions, baseCurrency)
		if err != nil {
			return Outcome{Err: err}
		}
		report := NewSituationReport(enrichment, prefs)
		result, err := s.Engine.Recommend(ctx, report, preferredModel, priority)
		// the report is preserved even when the recommendation fails,
		// so the user can adjust inputs and rethink
		return Outcome{Report: report, Result: result, Err: err}
	})
}

// Rethink re-issues an existing report through the recommendation engine
// without re-fetching any market data.
func (s *Session) Rethink(ctx context.Context, report *SituationReport, preferredModel string, priority []string) <-chan Outcome {
	return s.run(func() Outcome {
		result, err := s.Engine.Recommend(ctx, report, preferredModel, priority)
		return Outcome{Report: report, Result: result, Err: err}
	})
}

func (s *Session) run(job func() Outcome) <-chan Outcome {
	gen := s.generation.Load()
	out := make(chan Outcome, 1)
	go func() {
		outcome := job()
		if s.generation.Load() != gen {
			out <- Outcome{Err: ErrSessionRestarted}
			return
		}
		out <- outcome
	}()
	return out
}
