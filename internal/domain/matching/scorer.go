package matching

import (
	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/taxonomy"
)

const (
	bonusCoupleFriendly = 5.0
	bonusBroadFit       = 5.0
	bonusSkillsExcel    = 3.0

	broadFitThreshold   = 80.0
	broadFitMinScores   = 3
	skillsExcelMinScore = 95.0
)

// Scorer combines the evaluator outputs into one bounded overall score.
// Scoring is pure and side-effect free: safe to run in parallel across
// unrelated candidate/job pairs.
type Scorer struct {
	weights         Weights
	primaryLanguage string
}

func NewScorer(w Weights, primaryLanguage string) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w, primaryLanguage: primaryLanguage}, nil
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

func (s *Scorer) Score(cand candidate.Snapshot, j job.Snapshot, tax taxonomy.Taxonomy) Result {
	comps := ComponentScores{
		Skills:       SkillsScore(cand, j.Skills, tax),
		Location:     LocationScore(cand.Latitude, cand.Longitude, j.Latitude, j.Longitude, cand.AcceptsRelocation),
		Experience:   ExperienceScore(cand.ExperienceYears, j.RequiredExperienceYears),
		Language:     LanguageScore(cand.Languages, j.Languages, s.primaryLanguage),
		Availability: AvailabilityScore(cand.WorkTypes, j.WorkType),
		Preferences:  PreferencesScore(cand, j),
	}

	overall := s.blend(comps)
	if j.CoupleFriendly && cand.HasLinkedPartner() {
		overall += bonusCoupleFriendly
	}
	overall += fitBonuses(comps)

	return Result{Components: comps, Overall: clampScore(overall)}
}

// ScoreCouple scores a linked pair jointly: the skills term follows the
// posting's overlap policy, language takes the better partner per required
// language, location and availability take the more restrictive partner.
// The combined score is the mean of both partners' overalls plus the
// couple-friendly bonus.
func (s *Scorer) ScoreCouple(a, b candidate.Snapshot, j job.Snapshot, tax taxonomy.Taxonomy) CoupleResult {
	skills := CoupleSkillsScore(a, b, j.Skills, tax, j.OverlapPolicy())
	lang := CoupleLanguageScore(a.Languages, b.Languages, j.Languages, s.primaryLanguage)
	loc := minFloat(
		LocationScore(a.Latitude, a.Longitude, j.Latitude, j.Longitude, a.AcceptsRelocation),
		LocationScore(b.Latitude, b.Longitude, j.Latitude, j.Longitude, b.AcceptsRelocation),
	)
	avail := minFloat(
		AvailabilityScore(a.WorkTypes, j.WorkType),
		AvailabilityScore(b.WorkTypes, j.WorkType),
	)

	partner := func(c candidate.Snapshot) Result {
		comps := ComponentScores{
			Skills:       skills,
			Location:     loc,
			Experience:   ExperienceScore(c.ExperienceYears, j.RequiredExperienceYears),
			Language:     lang,
			Availability: avail,
			Preferences:  PreferencesScore(c, j),
		}
		// Per-partner overalls earn the same fit bonuses as solo scoring;
		// only the couple-friendly bonus moves to the combined score.
		return Result{Components: comps, Overall: clampScore(s.blend(comps) + fitBonuses(comps))}
	}

	ra := partner(a)
	rb := partner(b)

	combined := (ra.Overall + rb.Overall) / 2
	if j.CoupleFriendly {
		combined += bonusCoupleFriendly
	}

	return CoupleResult{Combined: clampScore(combined), A: ra, B: rb}
}

func (s *Scorer) blend(c ComponentScores) float64 {
	return c.Skills*s.weights.Skills +
		c.Location*s.weights.Location +
		c.Experience*s.weights.Experience +
		c.Language*s.weights.Language +
		c.Availability*s.weights.Availability +
		c.Preferences*s.weights.Preferences
}

func fitBonuses(c ComponentScores) float64 {
	var bonus float64

	above := 0
	for _, v := range []float64{c.Skills, c.Location, c.Experience, c.Language, c.Availability, c.Preferences} {
		if v > broadFitThreshold {
			above++
		}
	}
	if above >= broadFitMinScores {
		bonus += bonusBroadFit
	}

	if c.Skills >= skillsExcelMinScore {
		bonus += bonusSkillsExcel
	}
	return bonus
}
