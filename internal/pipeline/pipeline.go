// Package pipeline turns a timetable key and a filter into a consolidated
// grid, using the cache before falling back to the scheduler.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/horario/internal/cache"
	"github.com/javiermolinar/horario/internal/debuglog"
	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/scheduling"
	"github.com/javiermolinar/horario/internal/timetable"
)

// ErrNotGenerated is returned by Open when no cached result exists.
var ErrNotGenerated = errors.New("timetable has not been generated yet")

// ErrMissingKey is returned when no timetable key is given.
var ErrMissingKey = errors.New("timetable key cannot be empty")

// Source tells where a result came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceScheduler Source = "scheduler"
)

// Ordering of section columns.
const (
	OrderCohort    = "cohort"
	OrderScheduler = "scheduler"
)

// ViewState is everything a view needs to render: which timetable and which filter.
type ViewState struct {
	TimetableKey string
	Filter       timetable.Filter
}

// Options configures a Service.
type Options struct {
	// Order is OrderCohort (sort by year, group, section) or OrderScheduler.
	Order string
	// SplitAtSeparators stops horizontal merges at year and group boundaries.
	SplitAtSeparators bool
	Log               *debuglog.Logger
	Now               func() time.Time
}

// Service coordinates the generator, the cache and consolidation.
type Service struct {
	gen   scheduling.Generator
	cache *cache.Manager
	order string
	split bool
	log   *debuglog.Logger
	now   func() time.Time
}

// New creates a pipeline service. cache may be nil to disable caching.
func New(gen scheduling.Generator, cm *cache.Manager, opts Options) *Service {
	s := &Service{
		gen:   gen,
		cache: cm,
		order: opts.Order,
		split: opts.SplitAtSeparators,
		log:   opts.Log,
		now:   opts.Now,
	}
	if s.order == "" {
		s.order = OrderCohort
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Result is a generated timetable and where it came from.
type Result struct {
	TimetableKey string
	Sections     []timetable.SectionSchedule
	Source       Source
	GeneratedAt  time.Time

	order string
	split bool
	log   *debuglog.Logger
}

// Open returns the cached result for key, or ErrNotGenerated.
func (s *Service) Open(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	if s.cache == nil {
		return nil, ErrNotGenerated
	}
	sections, storedAt, ok := s.cache.Load(ctx, key)
	if !ok {
		return nil, ErrNotGenerated
	}
	return s.result(key, sections, SourceCache, storedAt), nil
}

// Resolve returns the cached result, generating a fresh one on a miss.
func (s *Service) Resolve(ctx context.Context, key string) (*Result, error) {
	res, err := s.Open(ctx, key)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, ErrNotGenerated) {
		return nil, err
	}
	return s.Regenerate(ctx, key)
}

// Regenerate drops any cached entry, runs the scheduler and caches the
// result on success. Failures are never cached.
func (s *Service) Regenerate(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, key)
	}

	start := s.now()
	sections, err := s.gen.Generate(ctx, key)
	if err != nil {
		s.log.Error("GENERATE_FAILED", err, map[string]any{"timetable": key})
		return nil, fmt.Errorf("generating timetable %s: %w", key, err)
	}
	s.log.Event("GENERATE_OK", map[string]any{
		"timetable":   key,
		"sections":    len(sections),
		"sessions":    timetable.CountSessions(sections),
		"duration_ms": s.now().Sub(start).Milliseconds(),
	})

	if s.cache != nil {
		s.cache.Store(ctx, key, sections)
	}
	return s.result(key, sections, SourceScheduler, s.now()), nil
}

// Invalidate drops the cached entry for key.
func (s *Service) Invalidate(ctx context.Context, key string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, key)
	}
}

// Render resolves the timetable for a view state and consolidates it.
func (s *Service) Render(ctx context.Context, state ViewState) (*Result, *grid.Grid, error) {
	res, err := s.Resolve(ctx, state.TimetableKey)
	if err != nil {
		return nil, nil, err
	}
	return res, res.View(state.Filter), nil
}

func (s *Service) result(key string, sections []timetable.SectionSchedule, src Source, at time.Time) *Result {
	return &Result{
		TimetableKey: key,
		Sections:     sections,
		Source:       src,
		GeneratedAt:  at,
		order:        s.order,
		split:        s.split,
		log:          s.log,
	}
}

// View applies the filter, orders the columns and consolidates the grid.
// Consolidation issues are logged and kept on the grid.
func (r *Result) View(filter timetable.Filter) *grid.Grid {
	sections := filter.Apply(r.Sections)
	if r.order != OrderScheduler {
		sections = timetable.SortSections(sections)
	}
	g := grid.ConsolidateWith(sections, grid.Options{SplitAtSeparators: r.split})
	for _, issue := range g.Issues {
		r.log.Event("CONSOLIDATION_ISSUE", map[string]any{
			"timetable": r.TimetableKey,
			"section":   issue.SectionID,
			"course":    issue.Session.CourseID,
			"slot":      issue.Session.SlotIndex,
			"error":     issue.Message(),
		})
	}
	return g
}

// Instructors returns the instructor filter choices for the unfiltered result.
func (r *Result) Instructors() []string {
	return timetable.Instructors(r.Sections)
}

// Rooms returns the room filter choices for the unfiltered result.
func (r *Result) Rooms() []string {
	return timetable.Rooms(r.Sections)
}
