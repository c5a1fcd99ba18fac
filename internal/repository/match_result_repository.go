package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/database"
	"pairwork/internal/domain/matching"
)

type MatchResultUpsert struct {
	SubjectID   uuid.UUID
	JobID       uuid.UUID
	SubjectKind string // "candidate" or "couple"

	Result matching.Result

	CandidateVersion int64
	JobVersion       int64
	ConfigVersion    string
	ComputedAt       time.Time
}

type MatchResultRepository interface {
	Upsert(ctx context.Context, m MatchResultUpsert) error
}

type PostgresMatchResultRepository struct {
	db database.DB
}

func NewPostgresMatchResultRepository(db database.DB) *PostgresMatchResultRepository {
	return &PostgresMatchResultRepository{db: db}
}

func (r *PostgresMatchResultRepository) Upsert(ctx context.Context, m MatchResultUpsert) error {
	if m.SubjectID == uuid.Nil || m.JobID == uuid.Nil {
		return nil
	}
	if m.ComputedAt.IsZero() {
		m.ComputedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO match_results (id, subject_id, job_id, subject_kind,
			score_skills, score_location, score_experience, score_language,
			score_availability, score_preferences, score_overall,
			candidate_version, job_version, config_version, computed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 ON CONFLICT (subject_id, job_id) DO UPDATE SET
			subject_kind = EXCLUDED.subject_kind,
			score_skills = EXCLUDED.score_skills,
			score_location = EXCLUDED.score_location,
			score_experience = EXCLUDED.score_experience,
			score_language = EXCLUDED.score_language,
			score_availability = EXCLUDED.score_availability,
			score_preferences = EXCLUDED.score_preferences,
			score_overall = EXCLUDED.score_overall,
			candidate_version = EXCLUDED.candidate_version,
			job_version = EXCLUDED.job_version,
			config_version = EXCLUDED.config_version,
			computed_at = EXCLUDED.computed_at`,
		uuid.New(), m.SubjectID, m.JobID, m.SubjectKind,
		m.Result.Components.Skills, m.Result.Components.Location,
		m.Result.Components.Experience, m.Result.Components.Language,
		m.Result.Components.Availability, m.Result.Components.Preferences,
		m.Result.Overall,
		m.CandidateVersion, m.JobVersion, m.ConfigVersion, m.ComputedAt,
	)
	return err
}
