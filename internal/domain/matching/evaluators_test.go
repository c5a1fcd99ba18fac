package matching

import (
	"testing"

	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
	"pairwork/internal/domain/language"
)

func ptrFloat(v float64) *float64 { return &v }

func TestLocationScore_Bands(t *testing.T) {
	// ~12 km due north of the reference point.
	lat, lon := 52.0, 13.4
	cases := []struct {
		name     string
		jobLat   float64
		relocate bool
		want     float64
	}{
		{"within 5km", 52.0300, false, 100},
		{"12km", 52.1079, false, 90},
		{"~25km", 52.2248, false, 75},
		{"~45km", 52.4047, false, 60},
		{"~90km", 52.8094, false, 40},
		{"far with relocation", 54.0, true, 20},
		{"far without relocation", 54.0, false, 10},
	}

	for _, tc := range cases {
		got := LocationScore(ptrFloat(lat), ptrFloat(lon), ptrFloat(tc.jobLat), ptrFloat(lon), tc.relocate)
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestLocationScore_MissingCoordinatesIsNeutral(t *testing.T) {
	if got := LocationScore(nil, nil, ptrFloat(52.0), ptrFloat(13.4), false); got != NeutralLocationScore {
		t.Fatalf("expected neutral %v, got %v", NeutralLocationScore, got)
	}
	if got := LocationScore(ptrFloat(52.0), ptrFloat(13.4), nil, nil, true); got != NeutralLocationScore {
		t.Fatalf("expected neutral %v, got %v", NeutralLocationScore, got)
	}
}

func TestLanguageScore(t *testing.T) {
	required := map[string]language.Level{"de": language.Advanced}

	if got := LanguageScore(map[string]language.Level{"de": language.Native}, required, ""); got != 100 {
		t.Fatalf("at or above required: expected 100, got %v", got)
	}

	// intermediate(50) vs advanced(75): 50/75*80 ~= 53.3
	got := LanguageScore(map[string]language.Level{"de": language.Intermediate}, required, "")
	if got < 53.3 || got > 53.4 {
		t.Fatalf("below required: expected ~53.33, got %v", got)
	}

	// absent language hits the floor of 20
	if got := LanguageScore(nil, required, ""); got != 20 {
		t.Fatalf("missing language: expected floor 20, got %v", got)
	}

	if got := LanguageScore(nil, nil, ""); got != 100 {
		t.Fatalf("no requirements: expected 100, got %v", got)
	}
}

func TestLanguageScore_PrimaryLanguageWeighted(t *testing.T) {
	required := map[string]language.Level{
		"de": language.Advanced,
		"en": language.Basic,
	}
	cand := map[string]language.Level{"en": language.Native} // de missing -> 20

	uniform := LanguageScore(cand, required, "")
	primaryDE := LanguageScore(cand, required, "de")
	if primaryDE >= uniform {
		t.Fatalf("weighting the weak primary language should lower the blend: uniform=%v primary=%v", uniform, primaryDE)
	}
}

func TestExperienceScore(t *testing.T) {
	cases := []struct {
		cand, req, want float64
	}{
		{3, 0, 100},  // no requirement
		{4, 4, 80},   // exact
		{6, 4, 90},   // 1.5x
		{12, 4, 100}, // capped at 2x
		{2, 4, 40},   // ratio 0.5
		{0.5, 4, 20}, // floor
	}
	for _, tc := range cases {
		if got := ExperienceScore(tc.cand, tc.req); got != tc.want {
			t.Fatalf("cand=%v req=%v: expected %v, got %v", tc.cand, tc.req, tc.want, got)
		}
	}
}

func TestAvailabilityScore(t *testing.T) {
	if got := AvailabilityScore(nil, "seasonal"); got != 80 {
		t.Fatalf("no preference: expected 80, got %v", got)
	}
	if got := AvailabilityScore([]string{"Seasonal", "full_time"}, "seasonal"); got != 100 {
		t.Fatalf("containment: expected 100, got %v", got)
	}
	if got := AvailabilityScore([]string{"part_time"}, "seasonal"); got != 40 {
		t.Fatalf("mismatch: expected 40, got %v", got)
	}
}

func TestPreferencesScore(t *testing.T) {
	cases := []struct {
		name string
		cand candidate.Snapshot
		job  job.Snapshot
		want float64
	}{
		{"no transport either side", candidate.Snapshot{}, job.Snapshot{}, 30},
		{"candidate transport only", candidate.Snapshot{HasTransport: true}, job.Snapshot{}, 50},
		{"job transport", candidate.Snapshot{}, job.Snapshot{ProvidesTransport: true}, 60},
		{
			"everything provided",
			candidate.Snapshot{},
			job.Snapshot{ProvidesTransport: true, ProvidesAccommodation: true, RemoteCapable: true},
			85,
		},
	}
	for _, tc := range cases {
		if got := PreferencesScore(tc.cand, tc.job); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
