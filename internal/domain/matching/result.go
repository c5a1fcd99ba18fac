package matching

// ComponentScores are the per-evaluator scores, each bounded to [0,100].
type ComponentScores struct {
	Skills       float64 `json:"skills"`
	Location     float64 `json:"location"`
	Experience   float64 `json:"experience"`
	Language     float64 `json:"language"`
	Availability float64 `json:"availability"`
	Preferences  float64 `json:"preferences"`
}

// Result is a pure function of (candidate snapshot, job snapshot, weights):
// identical inputs always produce an identical Result.
type Result struct {
	Components ComponentScores `json:"components"`
	Overall    float64         `json:"overall"`
}

// CoupleResult carries the joint score plus the per-partner results computed
// with the couple-adjusted skill, language, location and availability terms.
type CoupleResult struct {
	Combined float64 `json:"combined"`
	A        Result  `json:"a"`
	B        Result  `json:"b"`
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
