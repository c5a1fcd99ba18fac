package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/matching"
	"pairwork/internal/domain/taxonomy"
	"pairwork/internal/event"
	"pairwork/internal/infrastructure/snapshot"
	"pairwork/internal/metrics"
	"pairwork/internal/repository"
)

const matchCacheTTL = 10 * time.Minute

type MatchUsecase interface {
	ScoreCandidate(ctx context.Context, candidateID, jobID uuid.UUID) (matching.Result, error)
	ScoreCouple(ctx context.Context, candidateAID, candidateBID, jobID uuid.UUID) (matching.CoupleResult, error)
}

// matchCache is the subset of the redis cache scoring needs. A nil or cold
// cache degrades to recomputation.
type matchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Match struct {
	snapshots snapshot.Source
	cache     matchCache
	results   repository.MatchResultRepository
	scorer    *matching.Scorer
	emitter   event.Emitter
	logger    *log.Logger

	configVersion string
	now           func() time.Time
}

func NewMatchUsecase(
	snapshots snapshot.Source,
	cache matchCache,
	results repository.MatchResultRepository,
	scorer *matching.Scorer,
	emitter event.Emitter,
	logger *log.Logger,
	configVersion string,
) *Match {
	return &Match{
		snapshots:     snapshots,
		cache:         cache,
		results:       results,
		scorer:        scorer,
		emitter:       emitter,
		logger:        logger,
		configVersion: configVersion,
		now:           time.Now,
	}
}

func (u *Match) ScoreCandidate(ctx context.Context, candidateID, jobID uuid.UUID) (matching.Result, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return matching.Result{}, ErrInvalidInput
	}

	cand, err := u.snapshots.Candidate(ctx, candidateID)
	if err != nil {
		return matching.Result{}, mapSnapshotErr(err)
	}
	jb, err := u.snapshots.Job(ctx, jobID)
	if err != nil {
		return matching.Result{}, mapSnapshotErr(err)
	}
	tax, err := u.snapshots.Taxonomy(ctx)
	if err != nil {
		return matching.Result{}, ErrInternal
	}

	res, cached := u.scoreOne(ctx, cand, jb, tax)
	if !cached {
		u.emit(ctx, event.MatchComputed{
			SubjectID:       cand.ID,
			JobID:           jb.ID,
			OverallScore:    res.Overall,
			ComponentScores: res.Components,
		})
	}
	return res, nil
}

func (u *Match) ScoreCouple(ctx context.Context, candidateAID, candidateBID, jobID uuid.UUID) (matching.CoupleResult, error) {
	if candidateAID == uuid.Nil || candidateBID == uuid.Nil || jobID == uuid.Nil {
		return matching.CoupleResult{}, ErrInvalidInput
	}
	if candidateAID == candidateBID {
		return matching.CoupleResult{}, ErrInvalidInput
	}

	a, err := u.snapshots.Candidate(ctx, candidateAID)
	if err != nil {
		return matching.CoupleResult{}, mapSnapshotErr(err)
	}
	b, err := u.snapshots.Candidate(ctx, candidateBID)
	if err != nil {
		return matching.CoupleResult{}, mapSnapshotErr(err)
	}
	jb, err := u.snapshots.Job(ctx, jobID)
	if err != nil {
		return matching.CoupleResult{}, mapSnapshotErr(err)
	}
	tax, err := u.snapshots.Taxonomy(ctx)
	if err != nil {
		return matching.CoupleResult{}, ErrInternal
	}

	key := u.coupleCacheKey(a, b, jb)
	var cached matching.CoupleResult
	if hit, err := u.cacheGet(ctx, key, &cached); err == nil && hit {
		metrics.RecordMatchCacheHit()
		return cached, nil
	}

	res := u.scorer.ScoreCouple(a, b, jb, tax)
	joint := coupleJointResult(res)

	u.cacheSet(ctx, key, res)
	u.persist(ctx, repository.MatchResultUpsert{
		SubjectID:        coupleSubjectID(a.ID, b.ID),
		JobID:            jb.ID,
		SubjectKind:      "couple",
		Result:           joint,
		CandidateVersion: a.Version + b.Version,
		JobVersion:       jb.Version,
		ConfigVersion:    u.configVersion,
		ComputedAt:       u.now().UTC(),
	})
	u.emit(ctx, event.MatchComputed{
		SubjectID:       coupleSubjectID(a.ID, b.ID),
		JobID:           jb.ID,
		OverallScore:    res.Combined,
		ComponentScores: joint.Components,
	})
	metrics.RecordMatch("couple", res.Combined)

	return res, nil
}

// ScoreSnapshot scores an already-fetched pair. Recommendation fan-out uses
// it to avoid refetching the candidate and taxonomy per job; no event is
// emitted for bulk scoring.
func (u *Match) ScoreSnapshot(ctx context.Context, cand candidate.Snapshot, jb job.Snapshot, tax taxonomy.Taxonomy) matching.Result {
	res, _ := u.scoreOne(ctx, cand, jb, tax)
	return res
}

func (u *Match) scoreOne(ctx context.Context, cand candidate.Snapshot, jb job.Snapshot, tax taxonomy.Taxonomy) (matching.Result, bool) {
	key := u.candidateCacheKey(cand, jb)
	var cached matching.Result
	if hit, err := u.cacheGet(ctx, key, &cached); err == nil && hit {
		metrics.RecordMatchCacheHit()
		return cached, true
	}

	res := u.scorer.Score(cand, jb, tax)

	u.cacheSet(ctx, key, res)
	u.persist(ctx, repository.MatchResultUpsert{
		SubjectID:        cand.ID,
		JobID:            jb.ID,
		SubjectKind:      "candidate",
		Result:           res,
		CandidateVersion: cand.Version,
		JobVersion:       jb.Version,
		ConfigVersion:    u.configVersion,
		ComputedAt:       u.now().UTC(),
	})
	metrics.RecordMatch("candidate", res.Overall)

	return res, false
}

// Cache keys carry both snapshot versions and the weight config version, so
// stale entries die by key change instead of invalidation.
func (u *Match) candidateCacheKey(cand candidate.Snapshot, jb job.Snapshot) string {
	return fmt.Sprintf("match:candidate:%s:%s:%d:%d:%s",
		cand.ID, jb.ID, cand.Version, jb.Version, u.configVersion)
}

func (u *Match) coupleCacheKey(a, b candidate.Snapshot, jb job.Snapshot) string {
	lo, hi := a, b
	if hi.ID.String() < lo.ID.String() {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("match:couple:%s:%s:%s:%d:%d:%d:%s",
		lo.ID, hi.ID, jb.ID, lo.Version, hi.Version, jb.Version, u.configVersion)
}

func (u *Match) cacheGet(ctx context.Context, key string, out any) (bool, error) {
	if u.cache == nil {
		return false, nil
	}
	return u.cache.GetJSON(ctx, key, out)
}

func (u *Match) cacheSet(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, matchCacheTTL); err != nil && u.logger != nil {
		u.logger.Printf("[Match] cache set error key=%s err=%v", key, err)
	}
}

// persist is best-effort: a failed write costs a recomputation later, never
// the request.
func (u *Match) persist(ctx context.Context, m repository.MatchResultUpsert) {
	if u.results == nil {
		return
	}
	if err := u.results.Upsert(ctx, m); err != nil && u.logger != nil {
		u.logger.Printf("[Match] result upsert error subject=%s job=%s err=%v", m.SubjectID, m.JobID, err)
	}
}

func (u *Match) emit(ctx context.Context, evt event.Event) {
	if u.emitter == nil {
		return
	}
	u.emitter.Emit(ctx, evt)
}

// coupleJointResult flattens a couple score for storage and events: the
// shared terms are identical across partners, the per-partner terms are
// averaged.
func coupleJointResult(res matching.CoupleResult) matching.Result {
	return matching.Result{
		Components: matching.ComponentScores{
			Skills:       res.A.Components.Skills,
			Location:     res.A.Components.Location,
			Experience:   (res.A.Components.Experience + res.B.Components.Experience) / 2,
			Language:     res.A.Components.Language,
			Availability: res.A.Components.Availability,
			Preferences:  (res.A.Components.Preferences + res.B.Components.Preferences) / 2,
		},
		Overall: res.Combined,
	}
}

// coupleSubjectID derives a stable id for the unordered pair so repeated
// computations land on the same match_results row.
func coupleSubjectID(a, b uuid.UUID) uuid.UUID {
	lo, hi := a.String(), b.String()
	if hi < lo {
		lo, hi = hi, lo
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("pairwork:couple:"+lo+":"+hi))
}

func mapSnapshotErr(err error) error {
	if errors.Is(err, snapshot.ErrNotFound) {
		return ErrNotFound
	}
	return ErrInternal
}
