package matching

import (
	"pairwork/internal/domain/candidate"
	"pairwork/internal/domain/job"
)

// PreferencesScore is a soft 0-100 signal starting from a base of 50 and
// adjusted by transport, accommodation and remote capability.
func PreferencesScore(cand candidate.Snapshot, j job.Snapshot) float64 {
	score := 50.0

	if j.ProvidesTransport {
		score += 10
	} else if !cand.HasTransport {
		score -= 20
	}
	if j.ProvidesAccommodation {
		score += 15
	}
	if j.RemoteCapable {
		score += 10
	}

	return clampScore(score)
}
