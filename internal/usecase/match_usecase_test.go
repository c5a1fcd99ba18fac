package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/matching"
	"pairwork/internal/event"
	"pairwork/internal/repository"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memoryCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

type recordingResults struct {
	mu      sync.Mutex
	upserts []repository.MatchResultUpsert
}

func (r *recordingResults) Upsert(ctx context.Context, m repository.MatchResultUpsert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts = append(r.upserts, m)
	return nil
}

func newMatchUnderTest(t *testing.T) (*Match, *fakeSnapshots, *memoryCache, *recordingResults, *recordingEmitter) {
	t.Helper()

	scorer, err := matching.NewScorer(matching.DefaultWeights(), "de")
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	snaps := newFakeSnapshots()
	cache := newMemoryCache()
	results := &recordingResults{}
	emitter := &recordingEmitter{}
	u := NewMatchUsecase(snaps, cache, results, scorer, emitter, nil, "v1")
	return u, snaps, cache, results, emitter
}

func TestScoreCandidate_ComputesCachesAndPersists(t *testing.T) {
	u, snaps, _, results, emitter := newMatchUnderTest(t)

	candID, jobID := uuid.New(), uuid.New()
	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 3}
	snaps.jobs[jobID] = job.Snapshot{ID: jobID, Version: 7, Status: job.StatusPublished}

	res, err := u.ScoreCandidate(context.Background(), candID, jobID)
	if err != nil {
		t.Fatalf("ScoreCandidate: %v", err)
	}
	if res.Overall < 0 || res.Overall > 100 {
		t.Fatalf("overall out of bounds: %v", res.Overall)
	}

	if len(results.upserts) != 1 {
		t.Fatalf("expected one persisted result, got %d", len(results.upserts))
	}
	up := results.upserts[0]
	if up.SubjectID != candID || up.JobID != jobID || up.SubjectKind != "candidate" {
		t.Fatalf("unexpected upsert: %+v", up)
	}
	if up.CandidateVersion != 3 || up.JobVersion != 7 || up.ConfigVersion != "v1" {
		t.Fatalf("versions not recorded: %+v", up)
	}

	if len(emitter.ofType(event.TypeMatchComputed)) != 1 {
		t.Fatal("expected match-computed event")
	}

	// Second call hits the cache: no new persist, no new event.
	again, err := u.ScoreCandidate(context.Background(), candID, jobID)
	if err != nil {
		t.Fatalf("cached ScoreCandidate: %v", err)
	}
	if again != res {
		t.Fatalf("cached result differs: %+v vs %+v", again, res)
	}
	if len(results.upserts) != 1 || len(emitter.ofType(event.TypeMatchComputed)) != 1 {
		t.Fatal("cache hit should not persist or emit again")
	}
}

func TestScoreCandidate_VersionBumpInvalidatesCache(t *testing.T) {
	u, snaps, _, results, _ := newMatchUnderTest(t)

	candID, jobID := uuid.New(), uuid.New()
	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 1}
	snaps.jobs[jobID] = job.Snapshot{ID: jobID, Version: 1, Status: job.StatusPublished}

	if _, err := u.ScoreCandidate(context.Background(), candID, jobID); err != nil {
		t.Fatalf("first score: %v", err)
	}

	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 2}
	if _, err := u.ScoreCandidate(context.Background(), candID, jobID); err != nil {
		t.Fatalf("second score: %v", err)
	}

	if len(results.upserts) != 2 {
		t.Fatalf("version bump should recompute, upserts=%d", len(results.upserts))
	}
}

func TestScoreCouple_StableSubjectAcrossOrderings(t *testing.T) {
	u, snaps, _, results, _ := newMatchUnderTest(t)

	aID, bID, jobID := uuid.New(), uuid.New(), uuid.New()
	pa, pb := bID, aID
	snaps.candidates[aID] = candidate.Snapshot{ID: aID, Version: 1, PartnerID: &pa, CoupleStatus: candidate.CoupleLinked}
	snaps.candidates[bID] = candidate.Snapshot{ID: bID, Version: 1, PartnerID: &pb, CoupleStatus: candidate.CoupleLinked}
	snaps.jobs[jobID] = job.Snapshot{ID: jobID, Version: 1, Status: job.StatusPublished, CoupleFriendly: true}

	if _, err := u.ScoreCouple(context.Background(), aID, bID, jobID); err != nil {
		t.Fatalf("ScoreCouple: %v", err)
	}
	if _, err := u.ScoreCouple(context.Background(), bID, aID, jobID); err != nil {
		t.Fatalf("reversed ScoreCouple: %v", err)
	}

	// The reversed call must land on the same cache entry and subject row.
	if len(results.upserts) != 1 {
		t.Fatalf("expected one upsert for the unordered pair, got %d", len(results.upserts))
	}
	if results.upserts[0].SubjectKind != "couple" {
		t.Fatalf("unexpected kind: %s", results.upserts[0].SubjectKind)
	}
}

func TestScoreCandidate_UnknownJobNotFound(t *testing.T) {
	u, snaps, _, _, _ := newMatchUnderTest(t)

	candID := uuid.New()
	snaps.candidates[candID] = candidate.Snapshot{ID: candID, Version: 1}

	if _, err := u.ScoreCandidate(context.Background(), candID, uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
