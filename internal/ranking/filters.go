package ranking

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/scoring"
)

const (
	// DefaultDuplicateThreshold is the résumé similarity from which two candidates count as duplicates.
	DefaultDuplicateThreshold = 0.85
	// DefaultShortlistThreshold is the match score from which a candidate is shortlisted.
	DefaultShortlistThreshold = 70.0
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes candidates listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	initial := e.Len()
	if f.path == "" {
		return e, Step{Initial: initial, Left: initial}, nil
	}

	excluded, err := LoadExcludeList(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return e, Step{Initial: initial, Left: initial}, nil
	}
	if err != nil {
		return e, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := e.Exclude(excluded.IDs())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", e.Len()),
		)
	}

	return e, Step{Initial: initial, Dropped: len(removed), Left: e.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type duplicatesFilter struct {
	toggle
	threshold float64
}

// NewDuplicates creates a filter that keeps only the best-ranked of near-identical résumés.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Validate(cfg *Config) error {
	f.threshold = DefaultDuplicateThreshold
	if cfg != nil && cfg.DuplicateThreshold != 0 {
		f.threshold = cfg.DuplicateThreshold
	}
	if f.threshold <= 0 || f.threshold > 1 {
		return fmt.Errorf("duplicate threshold must be in (0, 1], got %v", f.threshold)
	}
	return nil
}

func (f *duplicatesFilter) Apply(ctx context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	initial := e.Len()
	kept := make([]string, 0, initial)
	keptIDs := make([]string, 0, initial)
	duplicateOf := make(map[string]string)

	for _, entry := range e.Items {
		if err := ctx.Err(); err != nil {
			return e, Step{}, err
		}

		text := ""
		if entry.Candidate != nil {
			text = scoring.Normalize(entry.Candidate.RawText)
		}
		if text == "" {
			continue
		}

		dup := false
		for i, other := range kept {
			if scoring.Similarity(text, other) >= f.threshold {
				duplicateOf[entry.CandidateID] = keptIDs[i]
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, text)
			keptIDs = append(keptIDs, entry.CandidateID)
		}
	}

	removed := e.removeIf(func(entry *Entry) bool {
		_, ok := duplicateOf[entry.CandidateID]
		return ok
	})

	if deps.Logger != nil {
		for _, id := range removed {
			deps.Logger.Info("excluding duplicate candidate",
				zap.String("candidate_id", id),
				zap.String("duplicate_of", duplicateOf[id]),
			)
		}
	}

	return e, Step{Initial: initial, Dropped: len(removed), Left: e.Len()}, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"threshold": strconv.FormatFloat(f.threshold, 'f', 2, 64)},
	}
}

type minimumATSFilter struct {
	toggle
	minimum float64
}

// NewMinimumATS creates a filter that drops candidates under the configured ATS score.
// A zero minimum keeps everyone.
func NewMinimumATS() Filter {
	return &minimumATSFilter{}
}

func (f *minimumATSFilter) Name() string { return "minimum_ats" }

func (f *minimumATSFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumATS
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum ats score must be in [0, 100], got %v", f.minimum)
	}
	return nil
}

func (f *minimumATSFilter) Apply(_ context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	initial := e.Len()
	if f.minimum == 0 {
		return e, Step{Initial: initial, Left: initial}, nil
	}

	removed := e.removeIf(func(entry *Entry) bool {
		return entry.ATSScore() < f.minimum
	})

	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding candidates below minimum ats score",
			zap.Float64("minimum", f.minimum),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", e.Len()),
		)
	}

	return e, Step{Initial: initial, Dropped: len(removed), Left: e.Len()}, nil
}

func (f *minimumATSFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum": strconv.FormatFloat(f.minimum, 'f', 2, 64)},
	}
}

type shortlistFilter struct {
	toggle
	threshold float64
}

// NewShortlist creates a step that marks entries shortlisted or rejected by match score.
// It never drops entries.
func NewShortlist() Filter {
	return &shortlistFilter{}
}

func (f *shortlistFilter) Name() string { return "shortlist" }

func (f *shortlistFilter) Validate(cfg *Config) error {
	f.threshold = DefaultShortlistThreshold
	if cfg != nil && cfg.ShortlistThreshold != 0 {
		f.threshold = cfg.ShortlistThreshold
	}
	if f.threshold < 0 || f.threshold > 100 {
		return fmt.Errorf("shortlist threshold must be in [0, 100], got %v", f.threshold)
	}
	return nil
}

func (f *shortlistFilter) Apply(_ context.Context, deps Deps, e *Entries) (*Entries, Step, error) {
	shortlisted := 0
	for _, entry := range e.Items {
		if entry.MatchScore() >= f.threshold {
			entry.Status = StatusShortlisted
			shortlisted++
			continue
		}
		entry.Status = StatusRejected
	}

	if deps.Logger != nil {
		deps.Logger.Info("shortlist decided",
			zap.Float64("threshold", f.threshold),
			zap.Int("shortlisted", shortlisted),
			zap.Int("rejected", e.Len()-shortlisted),
		)
	}

	return e, Step{Initial: e.Len(), Left: e.Len()}, nil
}

func (f *shortlistFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"threshold": strconv.FormatFloat(f.threshold, 'f', 2, 64)},
	}
}
