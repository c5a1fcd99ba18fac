package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pairwork/internal/database"
	"pairwork/internal/domain/application"
)

type CoupleApplicationRepository interface {
	Create(ctx context.Context, c *application.CoupleApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*application.CoupleApplication, error)
	// Confirm records one partner's confirmation in a single conditional
	// update. It reports applied=false when the row is no longer awaiting or
	// the deadline has passed; exactly one of a late confirm and the expiry
	// sweep can win.
	Confirm(ctx context.Context, id, candidateID uuid.UUID, now time.Time) (*application.CoupleApplication, bool, error)
	Cancel(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	// ExpireDue withdraws every awaiting couple whose deadline is at or past
	// now and returns the rows it moved. Re-running is a no-op.
	ExpireDue(ctx context.Context, now time.Time) ([]*application.CoupleApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.CoupleStatus, now time.Time) (bool, error)
	LinkApplications(ctx context.Context, id, applicationAID, applicationBID uuid.UUID) error
}

type PostgresCoupleApplicationRepository struct {
	db database.DB
}

func NewPostgresCoupleApplicationRepository(db database.DB) *PostgresCoupleApplicationRepository {
	return &PostgresCoupleApplicationRepository{db: db}
}

const coupleColumns = `id, job_id, candidate_a_id, candidate_b_id, status,
	confirmed_by_a, confirmed_by_b, deadline, combined_score,
	application_a_id, application_b_id, created_at, resolved_at`

func (r *PostgresCoupleApplicationRepository) Create(ctx context.Context, c *application.CoupleApplication) error {
	if c == nil {
		return errors.New("nil couple application")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO couple_applications (`+coupleColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.JobID, c.CandidateAID, c.CandidateBID, c.Status,
		c.ConfirmedByA, c.ConfirmedByB, c.Deadline, c.CombinedScore,
		c.ApplicationAID, c.ApplicationBID, c.CreatedAt, c.ResolvedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresCoupleApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*application.CoupleApplication, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+coupleColumns+` FROM couple_applications WHERE id = $1`, id)
	c, err := scanCouple(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *PostgresCoupleApplicationRepository) Confirm(ctx context.Context, id, candidateID uuid.UUID, now time.Time) (*application.CoupleApplication, bool, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE couple_applications
		 SET confirmed_by_a = confirmed_by_a OR (candidate_a_id = $2),
		     confirmed_by_b = confirmed_by_b OR (candidate_b_id = $2),
		     status = CASE
		         WHEN (confirmed_by_a OR candidate_a_id = $2)
		          AND (confirmed_by_b OR candidate_b_id = $2)
		         THEN 'submitted' ELSE status END
		 WHERE id = $1
		   AND status = 'awaiting_partner'
		   AND deadline > $3
		   AND (candidate_a_id = $2 OR candidate_b_id = $2)
		 RETURNING `+coupleColumns,
		id, candidateID, now,
	)
	c, err := scanCouple(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

func (r *PostgresCoupleApplicationRepository) Cancel(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE couple_applications
		 SET status = 'withdrawn', resolved_at = $2
		 WHERE id = $1 AND status = 'awaiting_partner'`,
		id, now,
	)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *PostgresCoupleApplicationRepository) ExpireDue(ctx context.Context, now time.Time) ([]*application.CoupleApplication, error) {
	rows, err := r.db.Query(ctx,
		`UPDATE couple_applications
		 SET status = 'withdrawn', resolved_at = $1
		 WHERE status = 'awaiting_partner' AND deadline <= $1
		 RETURNING `+coupleColumns,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*application.CoupleApplication, 0)
	for rows.Next() {
		c, err := scanCouple(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCoupleApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.CoupleStatus, now time.Time) (bool, error) {
	if to.Terminal() {
		affected, err := r.db.Exec(ctx,
			`UPDATE couple_applications
			 SET status = $3, resolved_at = $4
			 WHERE id = $1 AND status = $2`,
			id, from, to, now)
		if err != nil {
			return false, err
		}
		return affected == 1, nil
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE couple_applications
		 SET status = $3
		 WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// LinkApplications records the child application ids. The zero UUID means
// "leave as is": the sides are linked one at a time, and an unset side must
// stay NULL rather than become the zero id.
func (r *PostgresCoupleApplicationRepository) LinkApplications(ctx context.Context, id, applicationAID, applicationBID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE couple_applications
		 SET application_a_id = COALESCE(NULLIF($2::uuid, '00000000-0000-0000-0000-000000000000'::uuid), application_a_id),
		     application_b_id = COALESCE(NULLIF($3::uuid, '00000000-0000-0000-0000-000000000000'::uuid), application_b_id)
		 WHERE id = $1`,
		id, applicationAID, applicationBID,
	)
	return err
}

func scanCouple(row interface{ Scan(dest ...any) error }) (*application.CoupleApplication, error) {
	var c application.CoupleApplication
	err := row.Scan(
		&c.ID, &c.JobID, &c.CandidateAID, &c.CandidateBID, &c.Status,
		&c.ConfirmedByA, &c.ConfirmedByB, &c.Deadline, &c.CombinedScore,
		&c.ApplicationAID, &c.ApplicationBID, &c.CreatedAt, &c.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
