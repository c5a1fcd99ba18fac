package matching

// ExperienceScore rewards meeting the requirement with 80 and surplus up to
// 2x with up to 20 more; shortfall scales down to a floor of 20.
func ExperienceScore(candYears, requiredYears float64) float64 {
	if requiredYears <= 0 {
		return 100
	}
	if candYears < 0 {
		candYears = 0
	}

	ratio := candYears / requiredYears
	if ratio >= 1 {
		if ratio > 2 {
			ratio = 2
		}
		return clampScore(80 + (ratio-1)*20)
	}

	score := ratio * 80
	if score < 20 {
		return 20
	}
	return score
}
