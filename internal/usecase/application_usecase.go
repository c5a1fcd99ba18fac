package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/domain/application"
	"pairwork/internal/event"
	"pairwork/internal/infrastructure/snapshot"
	"pairwork/internal/metrics"
	"pairwork/internal/repository"
)

type ApplicationUsecase interface {
	Submit(ctx context.Context, candidateID, jobID uuid.UUID) (*application.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*application.Application, error)
	Transition(ctx context.Context, id uuid.UUID, to application.Status, actor application.Actor, actorID uuid.UUID) (*application.Application, error)
	Withdraw(ctx context.Context, id, candidateID uuid.UUID) (*application.Application, error)
}

// coupleProjector folds terminal child states onto the parent couple
// application. Wired after construction to the couple usecase.
type coupleProjector interface {
	ProjectOutcome(ctx context.Context, coupleID uuid.UUID) error
}

type Applications struct {
	apps      repository.ApplicationRepository
	snapshots snapshot.Source
	matcher   MatchUsecase
	emitter   event.Emitter
	logger    *log.Logger
	projector coupleProjector

	now func() time.Time
}

func NewApplicationUsecase(
	apps repository.ApplicationRepository,
	snapshots snapshot.Source,
	matcher MatchUsecase,
	emitter event.Emitter,
	logger *log.Logger,
) *Applications {
	return &Applications{
		apps:      apps,
		snapshots: snapshots,
		matcher:   matcher,
		emitter:   emitter,
		logger:    logger,
		now:       time.Now,
	}
}

// SetCoupleProjector breaks the construction cycle between the application
// and couple usecases.
func (u *Applications) SetCoupleProjector(p coupleProjector) {
	u.projector = p
}

// Submit creates a solo application with the match result frozen at
// submission time. Jobs that only hire couples refuse it.
func (u *Applications) Submit(ctx context.Context, candidateID, jobID uuid.UUID) (*application.Application, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	jb, err := u.snapshots.Job(ctx, jobID)
	if err != nil {
		return nil, mapSnapshotErr(err)
	}
	if jb.MustBeCouple {
		return nil, ErrCoupleRequired
	}

	if _, err := u.apps.GetByJobAndCandidate(ctx, jobID, candidateID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInternal
	}

	res, err := u.matcher.ScoreCandidate(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	a := &application.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      application.StatusSubmitted,
		Scores:      res.Components,
		Overall:     res.Overall,
		SubmittedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.apps.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		return nil, ErrInternal
	}

	metrics.RecordTransition(string(application.StatusDraft), string(application.StatusSubmitted))
	u.emit(ctx, event.ApplicationSubmitted{
		ApplicationID: a.ID,
		CandidateID:   candidateID,
		JobID:         jobID,
		Score:         a.Overall,
	})
	if u.logger != nil {
		u.logger.Printf("[Applications] submitted id=%s job=%s candidate=%s score=%.1f",
			a.ID, jobID, candidateID, a.Overall)
	}
	return a, nil
}

func (u *Applications) Get(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidInput
	}
	a, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	return a, nil
}

// Transition drives one step of the lifecycle. The table and the actor rules
// are checked up front, then the row is moved with a single conditional
// update so a concurrent writer cannot double-apply a step.
func (u *Applications) Transition(ctx context.Context, id uuid.UUID, to application.Status, actor application.Actor, actorID uuid.UUID) (*application.Application, error) {
	if id == uuid.Nil || !to.Valid() {
		return nil, ErrInvalidInput
	}

	a, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor == application.ActorCandidate && a.CandidateID != actorID {
		return nil, ErrForbidden
	}

	from := a.Status
	if !application.CanTransition(from, to) || !application.AllowedBy(to, actor) {
		metrics.RecordInvalidTransition()
		return nil, fmt.Errorf("%w: %s -> %s", application.ErrInvalidTransition, from, to)
	}

	now := u.now().UTC()
	applied, err := u.apps.UpdateStatus(ctx, id, from, to, now)
	if err != nil {
		return nil, ErrInternal
	}
	if !applied {
		// Row moved under us; report the conflict against its current state.
		metrics.RecordInvalidTransition()
		return nil, fmt.Errorf("%w: %s -> %s", application.ErrInvalidTransition, from, to)
	}

	a.Status = to
	a.UpdatedAt = now
	if to == application.StatusSubmitted {
		a.SubmittedAt = &now
	}

	metrics.RecordTransition(string(from), string(to))
	u.emit(ctx, event.ApplicationStatusChanged{
		ApplicationID: a.ID,
		FromState:     string(from),
		ToState:       string(to),
		Actor:         string(actor),
	})
	if u.logger != nil {
		u.logger.Printf("[Applications] transition id=%s from=%s to=%s actor=%s", a.ID, from, to, actor)
	}

	if to.Terminal() && a.CoupleApplicationID != nil && u.projector != nil {
		if err := u.projector.ProjectOutcome(ctx, *a.CoupleApplicationID); err != nil && u.logger != nil {
			u.logger.Printf("[Applications] couple projection error couple=%s err=%v", *a.CoupleApplicationID, err)
		}
	}

	return a, nil
}

func (u *Applications) Withdraw(ctx context.Context, id, candidateID uuid.UUID) (*application.Application, error) {
	return u.Transition(ctx, id, application.StatusWithdrawn, application.ActorCandidate, candidateID)
}

func (u *Applications) emit(ctx context.Context, evt event.Event) {
	if u.emitter == nil {
		return
	}
	u.emitter.Emit(ctx, evt)
}
