package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/matching"
	"pairwork/internal/domain/taxonomy"
)

// scoreByID maps subject ids to fixed overall scores; jobs score by job id,
// candidates by candidate id.
type scoreByID struct {
	jobScores  map[uuid.UUID]float64
	candScores map[uuid.UUID]float64
}

func (s scoreByID) ScoreSnapshot(ctx context.Context, cand candidate.Snapshot, jb job.Snapshot, tax taxonomy.Taxonomy) matching.Result {
	if v, ok := s.jobScores[jb.ID]; ok {
		return matching.Result{Overall: v}
	}
	if v, ok := s.candScores[cand.ID]; ok {
		return matching.Result{Overall: v}
	}
	return matching.Result{Overall: 0}
}

func TestRecommendJobs_RanksDescendingWithFilter(t *testing.T) {
	snaps := newFakeSnapshots()
	candID := uuid.New()
	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 1}

	scores := map[uuid.UUID]float64{}
	for _, s := range []float64{35, 91, 62, 78, 12} {
		id := uuid.New()
		snaps.jobs[id] = job.Snapshot{ID: id, Version: 1, Status: job.StatusPublished}
		scores[id] = s
	}
	// Draft jobs never appear.
	draft := uuid.New()
	snaps.jobs[draft] = job.Snapshot{ID: draft, Version: 1, Status: job.StatusDraft}
	scores[draft] = 99

	u := NewRecommendationUsecase(snaps, scoreByID{jobScores: scores}, nil, 4)

	out, err := u.RecommendJobs(context.Background(), candID, RecommendOptions{Limit: 10, MinScore: 30})
	if err != nil {
		t.Fatalf("RecommendJobs: %v", err)
	}

	want := []float64{91, 78, 62, 35}
	if len(out) != len(want) {
		t.Fatalf("expected %d recommendations, got %d", len(want), len(out))
	}
	for i, rec := range out {
		if rec.Result.Overall != want[i] {
			t.Fatalf("position %d: expected %v, got %v", i, want[i], rec.Result.Overall)
		}
	}
}

func TestRecommendJobs_LimitClamped(t *testing.T) {
	snaps := newFakeSnapshots()
	candID := uuid.New()
	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 1}

	scores := map[uuid.UUID]float64{}
	for i := 0; i < 60; i++ {
		id := uuid.New()
		snaps.jobs[id] = job.Snapshot{ID: id, Version: 1, Status: job.StatusPublished}
		scores[id] = float64(i + 1)
	}

	u := NewRecommendationUsecase(snaps, scoreByID{jobScores: scores}, nil, 8)

	out, err := u.RecommendJobs(context.Background(), candID, RecommendOptions{Limit: 500})
	if err != nil {
		t.Fatalf("RecommendJobs: %v", err)
	}
	if len(out) != maxRecommendLimit {
		t.Fatalf("expected limit clamp to %d, got %d", maxRecommendLimit, len(out))
	}

	out, err = u.RecommendJobs(context.Background(), candID, RecommendOptions{})
	if err != nil {
		t.Fatalf("RecommendJobs default: %v", err)
	}
	if len(out) != defaultRecommendLimit {
		t.Fatalf("expected default limit %d, got %d", defaultRecommendLimit, len(out))
	}
}

func TestRecommendJobs_Deterministic(t *testing.T) {
	snaps := newFakeSnapshots()
	candID := uuid.New()
	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 1}

	// All equal scores: ordering must still be stable across runs.
	scores := map[uuid.UUID]float64{}
	for i := 0; i < 20; i++ {
		id := uuid.New()
		snaps.jobs[id] = job.Snapshot{ID: id, Version: 1, Status: job.StatusPublished}
		scores[id] = 50
	}

	u := NewRecommendationUsecase(snaps, scoreByID{jobScores: scores}, nil, 8)

	first, err := u.RecommendJobs(context.Background(), candID, RecommendOptions{Limit: 20})
	if err != nil {
		t.Fatalf("RecommendJobs: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := u.RecommendJobs(context.Background(), candID, RecommendOptions{Limit: 20})
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		for i := range first {
			if again[i].JobID != first[i].JobID {
				t.Fatalf("run %d: ordering not deterministic at %d", run, i)
			}
		}
	}
}

func TestRecommendJobs_CancelledContextReturns(t *testing.T) {
	snaps := newFakeSnapshots()
	candID := uuid.New()
	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 1}

	// More published jobs than one listing page, so a producer that cannot
	// bail out of a full task queue would hang here.
	scores := map[uuid.UUID]float64{}
	for i := 0; i < recommendPageSize+50; i++ {
		id := uuid.New()
		snaps.jobs[id] = job.Snapshot{ID: id, Version: 1, Status: job.StatusPublished}
		scores[id] = 50
	}

	u := NewRecommendationUsecase(snaps, scoreByID{jobScores: scores}, nil, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := u.RecommendJobs(ctx, candID, RecommendOptions{Limit: 10})
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RecommendJobs did not return after cancellation")
	}
}

func TestRankCandidates_SkipsMissingSnapshots(t *testing.T) {
	snaps := newFakeSnapshots()
	jobID := uuid.New()
	snaps.jobs[jobID] = job.Snapshot{ID: jobID, Version: 1, Status: job.StatusPublished}

	known := uuid.New()
	snaps.candidates[known] = candidate.Snapshot{ID: known, Version: 1}
	missing := uuid.New()

	u := NewRecommendationUsecase(snaps, scoreByID{candScores: map[uuid.UUID]float64{known: 66}}, nil, 2)

	out, err := u.RankCandidates(context.Background(), jobID, []uuid.UUID{known, missing}, RecommendOptions{Limit: 10})
	if err != nil {
		t.Fatalf("RankCandidates: %v", err)
	}
	if len(out) != 1 || out[0].CandidateID != known || out[0].Result.Overall != 66 {
		t.Fatalf("unexpected ranking: %+v", out)
	}
}
