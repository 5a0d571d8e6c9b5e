package ranking

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/profile"
	"github.com/spigell/fitscore/internal/scoring"
)

// Rank evaluates every candidate against role with up to workers concurrent evaluations
// and orders the entries by match score, best first, ties broken by candidate id.
// Any evaluation error aborts the batch.
func Rank(ctx context.Context, scorer scoring.Scorer, role *profile.Role, candidates []*profile.Candidate, workers int, log *zap.Logger) (*Entries, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	for i, candidate := range candidates {
		if candidate == nil {
			return nil, fmt.Errorf("candidate #%d is nil", i)
		}
	}

	log = logger.WithFields(log)
	entries := make([]*Entry, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, candidate := range candidates {
		g.Go(func() error {
			eval, err := scorer.Evaluate(gctx, candidate, role)
			if err != nil {
				return fmt.Errorf("evaluate candidate %s: %w", candidate.ID, err)
			}
			entries[i] = &Entry{
				CandidateID: candidate.ID,
				Name:        candidate.Name,
				Evaluation:  eval,
				Candidate:   candidate,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(a, b int) bool {
		sa, sb := entries[a].MatchScore(), entries[b].MatchScore()
		if sa != sb {
			return sa > sb
		}
		return entries[a].CandidateID < entries[b].CandidateID
	})

	ranked := &Entries{Items: entries}
	if role != nil {
		ranked.RoleID = role.ID
	}
	ranked.renumber()

	log.Info("candidates ranked",
		zap.String(logger.FieldRole, ranked.RoleID),
		zap.Int("candidates", ranked.Len()),
		zap.Int("workers", workers),
	)

	return ranked, nil
}
