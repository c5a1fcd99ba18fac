package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/domain/application"
	"pairwork/internal/domain/matching"
	"pairwork/internal/event"
	"pairwork/internal/infrastructure/snapshot"
	"pairwork/internal/metrics"
	"pairwork/internal/repository"
)

type CoupleUsecase interface {
	Initiate(ctx context.Context, initiatorID, jobID uuid.UUID) (*application.CoupleApplication, error)
	Confirm(ctx context.Context, coupleID, candidateID uuid.UUID) (*application.CoupleApplication, error)
	Cancel(ctx context.Context, coupleID, candidateID uuid.UUID) error
	Get(ctx context.Context, coupleID uuid.UUID) (*application.CoupleApplication, error)
	ProjectOutcome(ctx context.Context, coupleID uuid.UUID) error
	ExpireDue(ctx context.Context) (int, error)
}

type coupleScorer interface {
	ScoreCouple(ctx context.Context, candidateAID, candidateBID, jobID uuid.UUID) (matching.CoupleResult, error)
}

type Couples struct {
	couples   repository.CoupleApplicationRepository
	apps      repository.ApplicationRepository
	snapshots snapshot.Source
	matcher   coupleScorer
	emitter   event.Emitter
	logger    *log.Logger

	confirmWindow time.Duration
	now           func() time.Time
}

func NewCoupleUsecase(
	couples repository.CoupleApplicationRepository,
	apps repository.ApplicationRepository,
	snapshots snapshot.Source,
	matcher coupleScorer,
	emitter event.Emitter,
	logger *log.Logger,
	confirmWindow time.Duration,
) *Couples {
	if confirmWindow <= 0 {
		confirmWindow = 24 * time.Hour
	}
	return &Couples{
		couples:       couples,
		apps:          apps,
		snapshots:     snapshots,
		matcher:       matcher,
		emitter:       emitter,
		logger:        logger,
		confirmWindow: confirmWindow,
		now:           time.Now,
	}
}

// Initiate opens a couple application on behalf of one partner. The
// initiator's own application is parked in awaiting_partner; nothing reaches
// the employer until the partner confirms within the window.
func (u *Couples) Initiate(ctx context.Context, initiatorID, jobID uuid.UUID) (*application.CoupleApplication, error) {
	if initiatorID == uuid.Nil || jobID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	initiator, err := u.snapshots.Candidate(ctx, initiatorID)
	if err != nil {
		return nil, mapSnapshotErr(err)
	}
	if !initiator.HasLinkedPartner() {
		return nil, ErrNotLinkedCouple
	}
	partnerID := *initiator.PartnerID

	partner, err := u.snapshots.Candidate(ctx, partnerID)
	if err != nil {
		return nil, mapSnapshotErr(err)
	}
	// The link must be mutual; a one-sided claim does not make a couple.
	if !partner.HasLinkedPartner() || *partner.PartnerID != initiatorID {
		return nil, ErrNotLinkedCouple
	}

	jb, err := u.snapshots.Job(ctx, jobID)
	if err != nil {
		return nil, mapSnapshotErr(err)
	}
	if !jb.AcceptsCouples() {
		return nil, ErrJobNotCoupleFriendly
	}

	res, err := u.matcher.ScoreCouple(ctx, initiatorID, partnerID, jobID)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	c := &application.CoupleApplication{
		ID:            uuid.New(),
		JobID:         jobID,
		CandidateAID:  initiatorID,
		CandidateBID:  partnerID,
		Status:        application.CoupleAwaitingPartner,
		ConfirmedByA:  true,
		Deadline:      now.Add(u.confirmWindow),
		CombinedScore: res.Combined,
		CreatedAt:     now,
	}
	if err := u.couples.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		return nil, ErrInternal
	}

	childA := &application.Application{
		ID:                  uuid.New(),
		JobID:               jobID,
		CandidateID:         initiatorID,
		Status:              application.StatusAwaitingPartner,
		Scores:              res.A.Components,
		Overall:             res.A.Overall,
		CoupleApplicationID: &c.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := u.apps.Create(ctx, childA); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// The initiator already applied solo; roll the couple row back.
			_, _ = u.couples.Cancel(ctx, c.ID, now)
			return nil, ErrAlreadyApplied
		}
		return nil, ErrInternal
	}
	if err := u.couples.LinkApplications(ctx, c.ID, childA.ID, uuid.Nil); err != nil && u.logger != nil {
		u.logger.Printf("[Couples] link error couple=%s err=%v", c.ID, err)
	}
	c.ApplicationAID = &childA.ID

	u.emit(ctx, event.CoupleAwaitingPartner{
		CoupleApplicationID: c.ID,
		PendingPartnerID:    partnerID,
		Deadline:            c.Deadline,
	})
	if u.logger != nil {
		u.logger.Printf("[Couples] initiated id=%s job=%s initiator=%s partner=%s deadline=%s",
			c.ID, jobID, initiatorID, partnerID, c.Deadline.Format(time.RFC3339))
	}
	return c, nil
}

// Confirm records the pending partner's confirmation. The deadline guard
// lives in the conditional update itself, so a confirm racing the expiry
// sweep resolves to exactly one winner; the loser sees AlreadyResolved.
func (u *Couples) Confirm(ctx context.Context, coupleID, candidateID uuid.UUID) (*application.CoupleApplication, error) {
	if coupleID == uuid.Nil || candidateID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	c, err := u.Get(ctx, coupleID)
	if err != nil {
		return nil, err
	}
	if !c.Participant(candidateID) {
		return nil, ErrForbidden
	}

	now := u.now().UTC()
	updated, applied, err := u.couples.Confirm(ctx, coupleID, candidateID, now)
	if err != nil {
		return nil, ErrInternal
	}
	if !applied {
		return nil, ErrAlreadyResolved
	}

	if updated.Status == application.CoupleSubmitted && updated.BothConfirmed() {
		if err := u.materialize(ctx, updated, now); err != nil {
			return nil, err
		}
	}

	if u.logger != nil {
		u.logger.Printf("[Couples] confirmed id=%s by=%s status=%s", updated.ID, candidateID, updated.Status)
	}
	return updated, nil
}

// materialize turns a fully confirmed couple into two submitted child
// applications the employer can now see.
func (u *Couples) materialize(ctx context.Context, c *application.CoupleApplication, now time.Time) error {
	res, err := u.matcher.ScoreCouple(ctx, c.CandidateAID, c.CandidateBID, c.JobID)
	if err != nil {
		return err
	}

	// The initiator's child moves out of awaiting_partner.
	if c.ApplicationAID != nil {
		if _, err := u.apps.UpdateStatus(ctx, *c.ApplicationAID,
			application.StatusAwaitingPartner, application.StatusSubmitted, now); err != nil {
			return ErrInternal
		}
		u.emit(ctx, event.ApplicationSubmitted{
			ApplicationID: *c.ApplicationAID,
			CandidateID:   c.CandidateAID,
			JobID:         c.JobID,
			Score:         res.A.Overall,
		})
	}

	childB := &application.Application{
		ID:                  uuid.New(),
		JobID:               c.JobID,
		CandidateID:         c.CandidateBID,
		Status:              application.StatusSubmitted,
		Scores:              res.B.Components,
		Overall:             res.B.Overall,
		CoupleApplicationID: &c.ID,
		SubmittedAt:         &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := u.apps.Create(ctx, childB); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return ErrInternal
	}
	c.ApplicationBID = &childB.ID

	aID := uuid.Nil
	if c.ApplicationAID != nil {
		aID = *c.ApplicationAID
	}
	if err := u.couples.LinkApplications(ctx, c.ID, aID, childB.ID); err != nil && u.logger != nil {
		u.logger.Printf("[Couples] link error couple=%s err=%v", c.ID, err)
	}

	u.emit(ctx, event.ApplicationSubmitted{
		ApplicationID: childB.ID,
		CandidateID:   c.CandidateBID,
		JobID:         c.JobID,
		Score:         res.B.Overall,
	})
	return nil
}

// Cancel withdraws an unconfirmed couple application. Either partner may
// cancel; once resolved it reports AlreadyResolved.
func (u *Couples) Cancel(ctx context.Context, coupleID, candidateID uuid.UUID) error {
	if coupleID == uuid.Nil || candidateID == uuid.Nil {
		return ErrInvalidInput
	}

	c, err := u.Get(ctx, coupleID)
	if err != nil {
		return err
	}
	if !c.Participant(candidateID) {
		return ErrForbidden
	}

	now := u.now().UTC()
	applied, err := u.couples.Cancel(ctx, coupleID, now)
	if err != nil {
		return ErrInternal
	}
	if !applied {
		return ErrAlreadyResolved
	}

	u.withdrawChild(ctx, c.ApplicationAID, now)
	u.resolve(ctx, coupleID, application.CoupleWithdrawn)
	return nil
}

func (u *Couples) Get(ctx context.Context, coupleID uuid.UUID) (*application.CoupleApplication, error) {
	if coupleID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	c, err := u.couples.GetByID(ctx, coupleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	return c, nil
}

// ProjectOutcome folds the children's terminal states onto the couple. It is
// idempotent: only the writer that moves the row emits the resolution.
func (u *Couples) ProjectOutcome(ctx context.Context, coupleID uuid.UUID) error {
	c, err := u.Get(ctx, coupleID)
	if err != nil {
		return err
	}
	if c.Status.Terminal() {
		return nil
	}

	children, err := u.apps.ListByCouple(ctx, coupleID)
	if err != nil {
		return ErrInternal
	}
	if len(children) != 2 {
		return nil
	}

	outcome, settled := application.ProjectCoupleOutcome(children[0].Status, children[1].Status)
	if !settled {
		return nil
	}

	applied, err := u.couples.UpdateStatus(ctx, coupleID, c.Status, outcome, u.now().UTC())
	if err != nil {
		return ErrInternal
	}
	if applied {
		u.resolve(ctx, coupleID, outcome)
	}
	return nil
}

// ExpireDue withdraws every couple whose confirmation window has lapsed and
// returns how many it moved. Safe to run from any number of instances.
func (u *Couples) ExpireDue(ctx context.Context) (int, error) {
	now := u.now().UTC()
	expired, err := u.couples.ExpireDue(ctx, now)
	if err != nil {
		return 0, ErrInternal
	}

	for _, c := range expired {
		u.withdrawChild(ctx, c.ApplicationAID, now)
		u.resolve(ctx, c.ID, application.CoupleWithdrawn)
		if u.logger != nil {
			u.logger.Printf("[Couples] expired id=%s job=%s deadline=%s",
				c.ID, c.JobID, c.Deadline.Format(time.RFC3339))
		}
	}
	metrics.RecordSweepExpired(len(expired))
	return len(expired), nil
}

func (u *Couples) withdrawChild(ctx context.Context, id *uuid.UUID, now time.Time) {
	if id == nil || *id == uuid.Nil {
		return
	}
	applied, err := u.apps.UpdateStatus(ctx, *id,
		application.StatusAwaitingPartner, application.StatusWithdrawn, now)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Couples] child withdraw error application=%s err=%v", *id, err)
		}
		return
	}
	if applied {
		metrics.RecordTransition(string(application.StatusAwaitingPartner), string(application.StatusWithdrawn))
		u.emit(ctx, event.ApplicationStatusChanged{
			ApplicationID: *id,
			FromState:     string(application.StatusAwaitingPartner),
			ToState:       string(application.StatusWithdrawn),
			Actor:         string(application.ActorSystem),
		})
	}
}

func (u *Couples) resolve(ctx context.Context, coupleID uuid.UUID, outcome application.CoupleStatus) {
	metrics.RecordCoupleResolved(string(outcome))
	u.emit(ctx, event.CoupleApplicationResolved{
		CoupleApplicationID: coupleID,
		Outcome:             string(outcome),
	})
}

func (u *Couples) emit(ctx context.Context, evt event.Event) {
	if u.emitter == nil {
		return
	}
	u.emitter.Emit(ctx, evt)
}
