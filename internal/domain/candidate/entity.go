package candidate

import (
	"time"

	"pairwork/internal/domain/language"

	"github.com/google/uuid"
)

type CoupleStatus string

const (
	CoupleNone        CoupleStatus = "none"
	CouplePendingLink CoupleStatus = "pending_link"
	CoupleLinked      CoupleStatus = "linked"
)

type SkillClaim struct {
	SkillID uuid.UUID
	Level   int // 1..5
}

// Snapshot is an immutable, versioned read of a candidate profile owned by
// the external profile service. The core never mutates it.
type Snapshot struct {
	ID      uuid.UUID
	Version int64

	Skills    []SkillClaim
	Languages map[string]language.Level

	Latitude  *float64
	Longitude *float64

	ExperienceYears float64
	AvailableFrom   *time.Time

	WorkTypes          []string
	PreferredLocations []string
	AcceptsRelocation  bool
	HasTransport       bool

	PartnerID    *uuid.UUID
	CoupleStatus CoupleStatus
}

func (s Snapshot) HasLinkedPartner() bool {
	return s.CoupleStatus == CoupleLinked && s.PartnerID != nil && *s.PartnerID != uuid.Nil
}

// SkillLevel returns the claimed proficiency for a skill, or false when the
// candidate does not hold it.
func (s Snapshot) SkillLevel(id uuid.UUID) (int, bool) {
	for _, c := range s.Skills {
		if c.SkillID == id {
			return c.Level, true
		}
	}
	return 0, false
}

func (s Snapshot) LanguageLevel(lang string) language.Level {
	if s.Languages == nil {
		return language.None
	}
	return s.Languages[lang]
}
