package matching

import (
	"testing"

	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/language"

	"github.com/google/uuid"
)

func coupleFixture(t *testing.T) (*Scorer, candidate.Snapshot, candidate.Snapshot, job.Snapshot) {
	t.Helper()

	s, err := NewScorer(DefaultWeights(), "")
	if err != nil {
		t.Fatalf("scorer: %v", err)
	}

	forklift := uuid.New()
	cooking := uuid.New()

	idA, idB := uuid.New(), uuid.New()
	a := candidate.Snapshot{
		ID:           idA,
		Skills:       []candidate.SkillClaim{{SkillID: forklift, Level: 5}},
		Languages:    map[string]language.Level{"de": language.Native},
		WorkTypes:    []string{"seasonal"},
		PartnerID:    &idB,
		CoupleStatus: candidate.CoupleLinked,
	}
	b := candidate.Snapshot{
		ID:           idB,
		Skills:       []candidate.SkillClaim{{SkillID: cooking, Level: 4}},
		Languages:    map[string]language.Level{"de": language.Basic},
		WorkTypes:    []string{"seasonal", "part_time"},
		PartnerID:    &idA,
		CoupleStatus: candidate.CoupleLinked,
	}

	j := job.Snapshot{
		ID:     uuid.New(),
		Status: job.StatusPublished,
		Skills: []job.SkillRequirement{
			{SkillID: forklift, Level: 3, Necessity: job.Required},
			{SkillID: cooking, Level: 3, Necessity: job.Preferred},
		},
		Languages:      map[string]language.Level{"de": language.Advanced},
		WorkType:       "seasonal",
		CoupleFriendly: true,
	}

	return s, a, b, j
}

func TestScoreCouple_EitherNeverBelowBoth(t *testing.T) {
	s, a, b, j := coupleFixture(t)

	either := j
	either.CoupleSkillOverlap = job.OverlapEither
	both := j
	both.CoupleSkillOverlap = job.OverlapBoth

	// No partner holds both skills, so the two modes genuinely diverge here;
	// the invariant must hold regardless.
	re := s.ScoreCouple(a, b, either, taxonomyOf(j.Skills[0].SkillID, j.Skills[1].SkillID))
	rb := s.ScoreCouple(a, b, both, taxonomyOf(j.Skills[0].SkillID, j.Skills[1].SkillID))

	if re.Combined < rb.Combined {
		t.Fatalf("either (%v) scored below both (%v)", re.Combined, rb.Combined)
	}
	if re.A.Components.Skills < rb.A.Components.Skills {
		t.Fatalf("either skills term (%v) below both (%v)", re.A.Components.Skills, rb.A.Components.Skills)
	}
}

func TestScoreCouple_LanguageTakesBetterPartner(t *testing.T) {
	s, a, b, j := coupleFixture(t)
	tax := taxonomyOf(j.Skills[0].SkillID, j.Skills[1].SkillID)

	res := s.ScoreCouple(a, b, j, tax)

	// Partner A is native, so the joint language term must be 100 even
	// though partner B alone would fall short.
	if res.A.Components.Language != 100 {
		t.Fatalf("expected joint language 100, got %v", res.A.Components.Language)
	}
	soloB := s.Score(b, j, tax)
	if soloB.Components.Language >= 100 {
		t.Fatalf("fixture broken: partner B alone should fall short of the language requirement")
	}
}

func TestScoreCouple_AvailabilityTakesRestrictivePartner(t *testing.T) {
	s, a, b, j := coupleFixture(t)
	tax := taxonomyOf(j.Skills[0].SkillID, j.Skills[1].SkillID)

	b.WorkTypes = []string{"part_time"} // no longer matches the posting

	res := s.ScoreCouple(a, b, j, tax)
	if res.A.Components.Availability != 40 {
		t.Fatalf("expected the lower availability (40), got %v", res.A.Components.Availability)
	}
}

func TestScoreCouple_CombinedIsMeanPlusBonus(t *testing.T) {
	s, a, b, j := coupleFixture(t)
	tax := taxonomyOf(j.Skills[0].SkillID, j.Skills[1].SkillID)

	res := s.ScoreCouple(a, b, j, tax)
	want := clampScore((res.A.Overall+res.B.Overall)/2 + bonusCoupleFriendly)
	if res.Combined != want {
		t.Fatalf("expected combined %v, got %v", want, res.Combined)
	}

	unfriendly := j
	unfriendly.CoupleFriendly = false
	unfriendly.MustBeCouple = true
	res2 := s.ScoreCouple(a, b, unfriendly, tax)
	if res2.Combined != clampScore((res2.A.Overall+res2.B.Overall)/2) {
		t.Fatalf("couple bonus applied on non-couple-friendly job")
	}
}

func TestScoreCouple_PartnerOverallIncludesFitBonuses(t *testing.T) {
	s, a, b, j := coupleFixture(t)
	tax := taxonomyOf(j.Skills[0].SkillID, j.Skills[1].SkillID)

	res := s.ScoreCouple(a, b, j, tax)
	if fitBonuses(res.A.Components) == 0 {
		t.Fatal("fixture broken: partner A should qualify for a fit bonus")
	}

	want := clampScore(s.blend(res.A.Components) + fitBonuses(res.A.Components))
	if res.A.Overall != want {
		t.Fatalf("partner overall %v, want %v including fit bonuses", res.A.Overall, want)
	}
}

func TestScoreCouple_Bounded(t *testing.T) {
	s, a, b, j := coupleFixture(t)
	res := s.ScoreCouple(a, b, j, taxonomyOf(j.Skills[0].SkillID, j.Skills[1].SkillID))

	for name, v := range map[string]float64{
		"combined": res.Combined,
		"a":        res.A.Overall,
		"b":        res.B.Overall,
	} {
		if v < 0 || v > 100 {
			t.Fatalf("%s out of bounds: %v", name, v)
		}
	}
}
