package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/matching"
	"pairwork/internal/domain/taxonomy"
	"pairwork/internal/infrastructure/snapshot"
	"pairwork/internal/pool"
)

const (
	defaultRecommendLimit = 10
	maxRecommendLimit     = 50
	recommendPageSize     = 200
)

type RecommendOptions struct {
	Limit    int
	MinScore float64
}

type JobRecommendation struct {
	JobID  uuid.UUID       `json:"job_id"`
	Result matching.Result `json:"result"`
}

type CandidateRanking struct {
	CandidateID uuid.UUID       `json:"candidate_id"`
	Result      matching.Result `json:"result"`
}

type RecommendationUsecase interface {
	RecommendJobs(ctx context.Context, candidateID uuid.UUID, opts RecommendOptions) ([]JobRecommendation, error)
	RankCandidates(ctx context.Context, jobID uuid.UUID, candidateIDs []uuid.UUID, opts RecommendOptions) ([]CandidateRanking, error)
}

// snapshotScorer is what the fan-out needs from the match usecase: scoring
// without per-pair refetching.
type snapshotScorer interface {
	ScoreSnapshot(ctx context.Context, cand candidate.Snapshot, jb job.Snapshot, tax taxonomy.Taxonomy) matching.Result
}

type Recommendation struct {
	snapshots snapshot.Source
	scorer    snapshotScorer
	logger    *log.Logger
	workers   int
}

func NewRecommendationUsecase(snapshots snapshot.Source, scorer snapshotScorer, logger *log.Logger, workers int) *Recommendation {
	if workers <= 0 {
		workers = 8
	}
	return &Recommendation{snapshots: snapshots, scorer: scorer, logger: logger, workers: workers}
}

func (u *Recommendation) RecommendJobs(ctx context.Context, candidateID uuid.UUID, opts RecommendOptions) ([]JobRecommendation, error) {
	if candidateID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	cand, err := u.snapshots.Candidate(ctx, candidateID)
	if err != nil {
		return nil, mapSnapshotErr(err)
	}
	tax, err := u.snapshots.Taxonomy(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	var (
		mu  sync.Mutex
		out []JobRecommendation
	)

	p := pool.NewWorkerPool(u.workers, recommendPageSize)
	results := p.Run(ctx)

	go func() {
		defer p.Close()
		offset := 0
		for {
			ids, err := u.snapshots.PublishedJobIDs(ctx, recommendPageSize, offset)
			if err != nil {
				if u.logger != nil {
					u.logger.Printf("[Recommend] job listing error offset=%d err=%v", offset, err)
				}
				return
			}
			if len(ids) == 0 {
				return
			}
			for _, id := range ids {
				jobID := id
				accepted := p.Submit(ctx, func(ctx context.Context) error {
					jb, err := u.snapshots.Job(ctx, jobID)
					if err != nil {
						// Unpublished or deleted between listing and fetch.
						if errors.Is(err, snapshot.ErrNotFound) {
							return nil
						}
						return err
					}
					res := u.scorer.ScoreSnapshot(ctx, cand, jb, tax)
					if res.Overall < opts.MinScore {
						return nil
					}
					mu.Lock()
					out = append(out, JobRecommendation{JobID: jb.ID, Result: res})
					mu.Unlock()
					return nil
				})
				if !accepted {
					return
				}
			}
			if len(ids) < recommendPageSize {
				return
			}
			offset += recommendPageSize
		}
	}()

	for r := range results {
		if r.Err != nil && u.logger != nil {
			u.logger.Printf("[Recommend] scoring task error err=%v", r.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Result.Overall != out[j].Result.Overall {
			return out[i].Result.Overall > out[j].Result.Overall
		}
		return out[i].JobID.String() < out[j].JobID.String()
	})

	limit := clampLimit(opts.Limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RankCandidates scores a caller-supplied shortlist against one job.
// Candidates without a snapshot are skipped, not failed.
func (u *Recommendation) RankCandidates(ctx context.Context, jobID uuid.UUID, candidateIDs []uuid.UUID, opts RecommendOptions) ([]CandidateRanking, error) {
	if jobID == uuid.Nil || len(candidateIDs) == 0 {
		return nil, ErrInvalidInput
	}

	jb, err := u.snapshots.Job(ctx, jobID)
	if err != nil {
		return nil, mapSnapshotErr(err)
	}
	tax, err := u.snapshots.Taxonomy(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	var (
		mu  sync.Mutex
		out []CandidateRanking
	)

	p := pool.NewWorkerPool(u.workers, len(candidateIDs))
	results := p.Run(ctx)

	go func() {
		defer p.Close()
		for _, id := range candidateIDs {
			candidateID := id
			accepted := p.Submit(ctx, func(ctx context.Context) error {
				cand, err := u.snapshots.Candidate(ctx, candidateID)
				if err != nil {
					if errors.Is(err, snapshot.ErrNotFound) {
						return nil
					}
					return err
				}
				res := u.scorer.ScoreSnapshot(ctx, cand, jb, tax)
				if res.Overall < opts.MinScore {
					return nil
				}
				mu.Lock()
				out = append(out, CandidateRanking{CandidateID: cand.ID, Result: res})
				mu.Unlock()
				return nil
			})
			if !accepted {
				return
			}
		}
	}()

	for r := range results {
		if r.Err != nil && u.logger != nil {
			u.logger.Printf("[Recommend] ranking task error job=%s err=%v", jobID, r.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Result.Overall != out[j].Result.Overall {
			return out[i].Result.Overall > out[j].Result.Overall
		}
		return out[i].CandidateID.String() < out[j].CandidateID.String()
	})

	limit := clampLimit(opts.Limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultRecommendLimit
	}
	if n > maxRecommendLimit {
		return maxRecommendLimit
	}
	return n
}
