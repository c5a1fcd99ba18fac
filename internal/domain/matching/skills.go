package matching

import (
	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/taxonomy"
)

// NeutralSkillsScore is returned for postings with no skill requirements.
// Deliberately below 100 so unconstrained jobs do not outrank real fits.
const NeutralSkillsScore = 80.0

const (
	bandRequired   = 3.0
	bandPreferred  = 2.0
	bandNiceToHave = 1.0
)

// SkillsScore is matchedWeight / totalWeight x 100 over the posting's
// requirements. Skill ids deleted from the taxonomy are excluded from both
// numerator and denominator, never counted as a match.
func SkillsScore(cand candidate.Snapshot, reqs []job.SkillRequirement, tax taxonomy.Taxonomy) float64 {
	var matched, total float64
	for _, r := range reqs {
		if skipRequirement(r, tax) {
			continue
		}
		w := requirementWeight(r)
		total += w

		lvl, ok := cand.SkillLevel(r.SkillID)
		if !ok {
			continue
		}
		matched += w * proficiencyCredit(lvl, r.Level)
	}

	if total == 0 {
		return NeutralSkillsScore
	}
	return clampScore(matched / total * 100)
}

// CoupleSkillsScore applies the posting's overlap policy: under "either" a
// requirement earns the better partner's credit, under "both" the worse.
func CoupleSkillsScore(a, b candidate.Snapshot, reqs []job.SkillRequirement, tax taxonomy.Taxonomy, mode job.OverlapMode) float64 {
	var matched, total float64
	for _, r := range reqs {
		if skipRequirement(r, tax) {
			continue
		}
		w := requirementWeight(r)
		total += w

		creditA := 0.0
		if lvl, ok := a.SkillLevel(r.SkillID); ok {
			creditA = proficiencyCredit(lvl, r.Level)
		}
		creditB := 0.0
		if lvl, ok := b.SkillLevel(r.SkillID); ok {
			creditB = proficiencyCredit(lvl, r.Level)
		}

		if mode == job.OverlapBoth {
			matched += w * minFloat(creditA, creditB)
		} else {
			matched += w * maxFloat(creditA, creditB)
		}
	}

	if total == 0 {
		return NeutralSkillsScore
	}
	return clampScore(matched / total * 100)
}

func skipRequirement(r job.SkillRequirement, tax taxonomy.Taxonomy) bool {
	if !tax.Empty() && !tax.Known(r.SkillID) {
		return true
	}
	return false
}

// requirementWeight resolves the effective weight: the necessity band by
// default, or the posting's 1-10 override rescaled linearly onto [1.0, 3.0].
func requirementWeight(r job.SkillRequirement) float64 {
	if r.Weight >= 1 {
		w := r.Weight
		if w > 10 {
			w = 10
		}
		return 1.0 + float64(w-1)/9.0*2.0
	}
	switch r.Necessity {
	case job.Required:
		return bandRequired
	case job.Preferred:
		return bandPreferred
	default:
		return bandNiceToHave
	}
}

// proficiencyCredit gives full credit at or above the required level and a
// level-ratio partial credit below it.
func proficiencyCredit(level, required int) float64 {
	if level <= 0 {
		return 0
	}
	if required <= 0 || level >= required {
		return 1
	}
	return float64(level) / float64(required)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
