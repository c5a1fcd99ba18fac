package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pairwork/internal/config"
	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/language"
	"pairwork/internal/domain/taxonomy"
)

// ErrNotFound means the upstream service has no snapshot for the id.
var ErrNotFound = errors.New("snapshot not found")

// Source serves the read-side snapshots scoring runs against. Candidate and
// job data are owned by other services; this process only reads versions of
// them.
type Source interface {
	Candidate(ctx context.Context, id uuid.UUID) (candidate.Snapshot, error)
	Job(ctx context.Context, id uuid.UUID) (job.Snapshot, error)
	PublishedJobIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
	Taxonomy(ctx context.Context) (taxonomy.Taxonomy, error)
}

type httpSource struct {
	profileBase  string
	jobBase      string
	taxonomyBase string
	client       *http.Client
	logger       *log.Logger
}

func NewHTTPSource(cfg config.SnapshotConfig, logger *log.Logger) Source {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpSource{
		profileBase:  strings.TrimRight(strings.TrimSpace(cfg.ProfileServiceURL), "/"),
		jobBase:      strings.TrimRight(strings.TrimSpace(cfg.JobServiceURL), "/"),
		taxonomyBase: strings.TrimRight(strings.TrimSpace(cfg.TaxonomyServiceURL), "/"),
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

func (s *httpSource) Candidate(ctx context.Context, id uuid.UUID) (candidate.Snapshot, error) {
	var dto candidateDTO
	if err := s.getJSON(ctx, s.profileBase+"/internal/candidates/"+id.String(), &dto); err != nil {
		return candidate.Snapshot{}, err
	}
	return dto.toDomain()
}

// Job returns only published jobs; anything else reads as not found so
// callers cannot score or apply against drafts.
func (s *httpSource) Job(ctx context.Context, id uuid.UUID) (job.Snapshot, error) {
	var dto jobDTO
	if err := s.getJSON(ctx, s.jobBase+"/internal/jobs/"+id.String(), &dto); err != nil {
		return job.Snapshot{}, err
	}
	j, err := dto.toDomain()
	if err != nil {
		return job.Snapshot{}, err
	}
	if !j.Published() {
		return job.Snapshot{}, ErrNotFound
	}
	return j, nil
}

func (s *httpSource) PublishedJobIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	endpoint := fmt.Sprintf("%s/internal/jobs?status=published&limit=%d&offset=%d", s.jobBase, limit, offset)

	var out struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := s.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}

// Taxonomy tolerates upstream failure: an empty taxonomy disables the
// unknown-skill filter instead of blocking scoring.
func (s *httpSource) Taxonomy(ctx context.Context) (taxonomy.Taxonomy, error) {
	var dto taxonomyDTO
	if err := s.getJSON(ctx, s.taxonomyBase+"/internal/taxonomy", &dto); err != nil {
		if s.logger != nil {
			s.logger.Printf("[Snapshot] taxonomy unavailable, unknown-skill filter disabled err=%v", err)
		}
		return taxonomy.Taxonomy{}, nil
	}
	return dto.toDomain(), nil
}

func (s *httpSource) getJSON(ctx context.Context, endpoint string, out any) error {
	if s == nil || s.client == nil {
		return errors.New("nil snapshot client")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		err := fmt.Errorf("snapshot fetch failed: status=%d body=%s", resp.StatusCode, bodyStr)
		if s.logger != nil {
			s.logger.Printf("[Snapshot] fetch error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, bodyStr)
		}
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var _ Source = (*httpSource)(nil)

type candidateDTO struct {
	ID             uuid.UUID `json:"id"`
	Version        int64     `json:"version"`
	Skills         []struct {
		SkillID uuid.UUID `json:"skill_id"`
		Level   int       `json:"level"`
	} `json:"skills"`
	Languages          map[string]string `json:"languages"`
	Latitude           *float64          `json:"latitude"`
	Longitude          *float64          `json:"longitude"`
	ExperienceYears    float64           `json:"experience_years"`
	AvailableFrom      *time.Time        `json:"available_from"`
	WorkTypes          []string          `json:"work_types"`
	PreferredLocations []string          `json:"preferred_locations"`
	AcceptsRelocation  bool              `json:"accepts_relocation"`
	HasTransport       bool              `json:"has_transport"`
	PartnerID          *uuid.UUID        `json:"partner_id"`
	CoupleStatus       string            `json:"couple_status"`
}

func (d candidateDTO) toDomain() (candidate.Snapshot, error) {
	skills := make([]candidate.SkillClaim, 0, len(d.Skills))
	for _, s := range d.Skills {
		skills = append(skills, candidate.SkillClaim{SkillID: s.SkillID, Level: s.Level})
	}

	langs := make(map[string]language.Level, len(d.Languages))
	for code, lvl := range d.Languages {
		langs[strings.ToLower(code)] = language.Parse(lvl)
	}

	return candidate.Snapshot{
		ID:                 d.ID,
		Version:            d.Version,
		Skills:             skills,
		Languages:          langs,
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		ExperienceYears:    d.ExperienceYears,
		AvailableFrom:      d.AvailableFrom,
		WorkTypes:          d.WorkTypes,
		PreferredLocations: d.PreferredLocations,
		AcceptsRelocation:  d.AcceptsRelocation,
		HasTransport:       d.HasTransport,
		PartnerID:          d.PartnerID,
		CoupleStatus:       candidate.CoupleStatus(d.CoupleStatus),
	}, nil
}

type jobDTO struct {
	ID      uuid.UUID `json:"id"`
	Version int64     `json:"version"`
	Status  string    `json:"status"`
	Skills  []struct {
		SkillID   uuid.UUID `json:"skill_id"`
		Level     int       `json:"level"`
		Weight    int       `json:"weight"`
		Necessity string    `json:"necessity"`
	} `json:"skills"`
	Languages               map[string]string `json:"languages"`
	Latitude                *float64          `json:"latitude"`
	Longitude               *float64          `json:"longitude"`
	RequiredExperienceYears float64           `json:"required_experience_years"`
	WorkType                string            `json:"work_type"`
	ProvidesTransport       bool              `json:"provides_transport"`
	ProvidesAccommodation   bool              `json:"provides_accommodation"`
	RemoteCapable           bool              `json:"remote_capable"`
	CoupleFriendly          bool              `json:"couple_friendly"`
	MustBeCouple            bool              `json:"must_be_couple"`
	CoupleSkillOverlap      string            `json:"couple_skill_overlap"`
	MaxCouplePositions      int               `json:"max_couple_positions"`
}

func (d jobDTO) toDomain() (job.Snapshot, error) {
	reqs := make([]job.SkillRequirement, 0, len(d.Skills))
	for _, s := range d.Skills {
		necessity := job.Necessity(s.Necessity)
		if necessity == "" {
			necessity = job.Required
		}
		reqs = append(reqs, job.SkillRequirement{
			SkillID:   s.SkillID,
			Level:     s.Level,
			Weight:    s.Weight,
			Necessity: necessity,
		})
	}

	langs := make(map[string]language.Level, len(d.Languages))
	for code, lvl := range d.Languages {
		langs[strings.ToLower(code)] = language.Parse(lvl)
	}

	return job.Snapshot{
		ID:                      d.ID,
		Version:                 d.Version,
		Status:                  job.Status(d.Status),
		Skills:                  reqs,
		Languages:               langs,
		Latitude:                d.Latitude,
		Longitude:               d.Longitude,
		RequiredExperienceYears: d.RequiredExperienceYears,
		WorkType:                d.WorkType,
		ProvidesTransport:       d.ProvidesTransport,
		ProvidesAccommodation:   d.ProvidesAccommodation,
		RemoteCapable:           d.RemoteCapable,
		CoupleFriendly:          d.CoupleFriendly,
		MustBeCouple:            d.MustBeCouple,
		CoupleSkillOverlap:      job.OverlapMode(d.CoupleSkillOverlap),
		MaxCouplePositions:      d.MaxCouplePositions,
	}, nil
}

type taxonomyDTO struct {
	Version int64 `json:"version"`
	Skills  []struct {
		ID       uuid.UUID `json:"id"`
		Name     string    `json:"name"`
		Category string    `json:"category"`
	} `json:"skills"`
}

func (d taxonomyDTO) toDomain() taxonomy.Taxonomy {
	skills := make([]taxonomy.Skill, 0, len(d.Skills))
	for _, s := range d.Skills {
		skills = append(skills, taxonomy.Skill{ID: s.ID, Name: s.Name, Category: s.Category})
	}
	return taxonomy.New(d.Version, skills)
}
