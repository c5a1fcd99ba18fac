package job

import (
	"pairwork/internal/domain/language"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

type Necessity string

const (
	Required   Necessity = "required"
	Preferred  Necessity = "preferred"
	NiceToHave Necessity = "nice_to_have"
)

// OverlapMode controls whether a couple satisfies a skill requirement when
// either partner holds it or only when both do.
type OverlapMode string

const (
	OverlapEither OverlapMode = "either"
	OverlapBoth   OverlapMode = "both"
)

type SkillRequirement struct {
	SkillID   uuid.UUID
	Level     int // 1..5, 0 means any level
	Weight    int // 1..10 posting override, 0 means use the necessity band
	Necessity Necessity
}

// Snapshot is an immutable, versioned read of a posting owned by the external
// job service. Only published postings are matchable; a changed posting shows
// up as a new version, never as an in-place edit of past scores.
type Snapshot struct {
	ID      uuid.UUID
	Version int64
	Status  Status

	Skills    []SkillRequirement
	Languages map[string]language.Level

	Latitude  *float64
	Longitude *float64

	RequiredExperienceYears float64
	WorkType                string

	ProvidesTransport     bool
	ProvidesAccommodation bool
	RemoteCapable         bool

	CoupleFriendly     bool
	MustBeCouple       bool
	CoupleSkillOverlap OverlapMode
	MaxCouplePositions int
}

func (s Snapshot) Published() bool {
	return s.Status == StatusPublished
}

func (s Snapshot) AcceptsCouples() bool {
	return s.CoupleFriendly || s.MustBeCouple
}

func (s Snapshot) OverlapPolicy() OverlapMode {
	if s.CoupleSkillOverlap == OverlapBoth {
		return OverlapBoth
	}
	return OverlapEither
}
