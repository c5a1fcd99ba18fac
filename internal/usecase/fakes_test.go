package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/domain/application"
	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/matching"
	"pairwork/internal/domain/taxonomy"
	"pairwork/internal/event"
	"pairwork/internal/infrastructure/snapshot"
	"pairwork/internal/repository"
)

type fakeSnapshots struct {
	mu         sync.Mutex
	candidates map[uuid.UUID]candidate.Snapshot
	jobs       map[uuid.UUID]job.Snapshot
	tax        taxonomy.Taxonomy
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{
		candidates: make(map[uuid.UUID]candidate.Snapshot),
		jobs:       make(map[uuid.UUID]job.Snapshot),
	}
}

func (f *fakeSnapshots) Candidate(ctx context.Context, id uuid.UUID) (candidate.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return candidate.Snapshot{}, snapshot.ErrNotFound
	}
	return c, nil
}

func (f *fakeSnapshots) Job(ctx context.Context, id uuid.UUID) (job.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok || !j.Published() {
		return job.Snapshot{}, snapshot.ErrNotFound
	}
	return j, nil
}

func (f *fakeSnapshots) PublishedJobIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(f.jobs))
	for id, j := range f.jobs {
		if j.Published() {
			ids = append(ids, id)
		}
	}
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeSnapshots) Taxonomy(ctx context.Context) (taxonomy.Taxonomy, error) {
	return f.tax, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{rows: make(map[uuid.UUID]*application.Application)}
}

func (f *fakeApplicationRepo) Create(ctx context.Context, a *application.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.JobID == a.JobID && r.CandidateID == a.CandidateID {
			return errDuplicate()
		}
	}
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, errNotFound()
	}
	cp := *r
	return &cp, nil
}

func (f *fakeApplicationRepo) GetByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.JobID == jobID && r.CandidateID == candidateID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errNotFound()
}

func (f *fakeApplicationRepo) ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]*application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*application.Application, 0, 2)
	for _, r := range f.rows {
		if r.CoupleApplicationID != nil && *r.CoupleApplicationID == coupleID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.Status, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.UpdatedAt = now
	if to == application.StatusSubmitted {
		r.SubmittedAt = &now
	}
	return true, nil
}

type fakeCoupleRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*application.CoupleApplication
}

func newFakeCoupleRepo() *fakeCoupleRepo {
	return &fakeCoupleRepo{rows: make(map[uuid.UUID]*application.CoupleApplication)}
}

func (f *fakeCoupleRepo) Create(ctx context.Context, c *application.CoupleApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.JobID == c.JobID && samePair(r, c) && !r.Status.Terminal() {
			return errDuplicate()
		}
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func samePair(a, b *application.CoupleApplication) bool {
	return (a.CandidateAID == b.CandidateAID && a.CandidateBID == b.CandidateBID) ||
		(a.CandidateAID == b.CandidateBID && a.CandidateBID == b.CandidateAID)
}

func (f *fakeCoupleRepo) GetByID(ctx context.Context, id uuid.UUID) (*application.CoupleApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, errNotFound()
	}
	cp := *r
	return &cp, nil
}

// Confirm mirrors the production conditional update: state and deadline are
// checked and mutated under one lock, so racing callers see one winner.
func (f *fakeCoupleRepo) Confirm(ctx context.Context, id, candidateID uuid.UUID, now time.Time) (*application.CoupleApplication, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, false, nil
	}
	if r.Status != application.CoupleAwaitingPartner || !r.Deadline.After(now) {
		return nil, false, nil
	}
	if r.CandidateAID != candidateID && r.CandidateBID != candidateID {
		return nil, false, nil
	}
	if r.CandidateAID == candidateID {
		r.ConfirmedByA = true
	}
	if r.CandidateBID == candidateID {
		r.ConfirmedByB = true
	}
	if r.ConfirmedByA && r.ConfirmedByB {
		r.Status = application.CoupleSubmitted
	}
	cp := *r
	return &cp, true, nil
}

func (f *fakeCoupleRepo) Cancel(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Status != application.CoupleAwaitingPartner {
		return false, nil
	}
	r.Status = application.CoupleWithdrawn
	r.ResolvedAt = &now
	return true, nil
}

func (f *fakeCoupleRepo) ExpireDue(ctx context.Context, now time.Time) ([]*application.CoupleApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*application.CoupleApplication, 0)
	for _, r := range f.rows {
		if r.Status == application.CoupleAwaitingPartner && !r.Deadline.After(now) {
			r.Status = application.CoupleWithdrawn
			t := now
			r.ResolvedAt = &t
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCoupleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.CoupleStatus, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if to.Terminal() {
		t := now
		r.ResolvedAt = &t
	}
	return true, nil
}

func (f *fakeCoupleRepo) LinkApplications(ctx context.Context, id, applicationAID, applicationBID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return errNotFound()
	}
	if applicationAID != uuid.Nil {
		a := applicationAID
		r.ApplicationAID = &a
	}
	if applicationBID != uuid.Nil {
		b := applicationBID
		r.ApplicationBID = &b
	}
	return nil
}

type fakeMatcher struct {
	result matching.Result
	couple matching.CoupleResult
	err    error
}

func (f *fakeMatcher) ScoreCandidate(ctx context.Context, candidateID, jobID uuid.UUID) (matching.Result, error) {
	return f.result, f.err
}

func (f *fakeMatcher) ScoreCouple(ctx context.Context, candidateAID, candidateBID, jobID uuid.UUID) (matching.CoupleResult, error) {
	return f.couple, f.err
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingEmitter) Emit(ctx context.Context, evt event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingEmitter) ofType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, 0)
	for _, e := range r.events {
		if e.Kind() == t {
			out = append(out, e)
		}
	}
	return out
}

func errNotFound() error  { return repository.ErrNotFound }
func errDuplicate() error { return repository.ErrDuplicate }
