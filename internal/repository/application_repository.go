package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pairwork/internal/database"
	"pairwork/internal/domain/application"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*application.Application, error)
	GetByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*application.Application, error)
	ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]*application.Application, error)
	// UpdateStatus applies a single conditional transition. It reports false
	// without error when the row was no longer in the expected state, which
	// callers surface as a transition conflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.Status, now time.Time) (bool, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, candidate_id, status,
	score_skills, score_location, score_experience, score_language,
	score_availability, score_preferences, score_overall,
	couple_application_id, submitted_at, created_at, updated_at`

func (r *PostgresApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	if a == nil {
		return errors.New("nil application")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (`+applicationColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		a.ID, a.JobID, a.CandidateID, a.Status,
		a.Scores.Skills, a.Scores.Location, a.Scores.Experience, a.Scores.Language,
		a.Scores.Availability, a.Scores.Preferences, a.Overall,
		a.CoupleApplicationID, a.SubmittedAt, a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) GetByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND candidate_id = $2`,
		jobID, candidateID)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]*application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE couple_application_id = $1
		 ORDER BY created_at ASC`, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*application.Application, 0, 2)
	for rows.Next() {
		a, err := scanApplicationRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.Status, now time.Time) (bool, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET status = $3, updated_at = $4`+submittedTimestamp(to)+`
		 WHERE id = $1 AND status = $2`,
		id, from, to, now,
	)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func submittedTimestamp(to application.Status) string {
	if to == application.StatusSubmitted {
		return `, submitted_at = $4`
	}
	return ``
}

func scanApplication(row database.Row) (*application.Application, error) {
	a, err := scanApplicationRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanApplicationRow(row interface{ Scan(dest ...any) error }) (*application.Application, error) {
	var a application.Application
	err := row.Scan(
		&a.ID, &a.JobID, &a.CandidateID, &a.Status,
		&a.Scores.Skills, &a.Scores.Location, &a.Scores.Experience, &a.Scores.Language,
		&a.Scores.Availability, &a.Scores.Preferences, &a.Overall,
		&a.CoupleApplicationID, &a.SubmittedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
