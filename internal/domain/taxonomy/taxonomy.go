package taxonomy

import "github.com/google/uuid"

type Skill struct {
	ID       uuid.UUID
	Name     string
	Category string
}

// Taxonomy is a read-only snapshot of the skill taxonomy service. Skill ids
// missing from it are treated as deleted and excluded from scoring entirely.
type Taxonomy struct {
	Version int64
	Skills  map[uuid.UUID]Skill
}

func New(version int64, skills []Skill) Taxonomy {
	m := make(map[uuid.UUID]Skill, len(skills))
	for _, s := range skills {
		if s.ID == uuid.Nil {
			continue
		}
		m[s.ID] = s
	}
	return Taxonomy{Version: version, Skills: m}
}

func (t Taxonomy) Known(id uuid.UUID) bool {
	if t.Skills == nil {
		return false
	}
	_, ok := t.Skills[id]
	return ok
}

// Empty reports whether the snapshot carries no skills at all, which callers
// treat as "taxonomy unavailable" and skip the unknown-skill filter.
func (t Taxonomy) Empty() bool {
	return len(t.Skills) == 0
}
