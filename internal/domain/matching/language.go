package matching

import "pairwork/internal/domain/language"

const primaryLanguageWeight = 2.0

// LanguageScore blends per-language scores across the posting's required
// languages. A candidate at or above the required level scores 100, below it
// max(20, cand/req x 80). The primary-market language counts double.
func LanguageScore(candLevels, required map[string]language.Level, primary string) float64 {
	var sum, weights float64
	for lang, req := range required {
		if req <= language.None {
			continue
		}

		w := 1.0
		if primary != "" && lang == primary {
			w = primaryLanguageWeight
		}

		cand := language.None
		if candLevels != nil {
			cand = candLevels[lang]
		}

		sum += w * singleLanguageScore(cand, req)
		weights += w
	}

	if weights == 0 {
		return 100
	}
	return clampScore(sum / weights)
}

// CoupleLanguageScore takes the better of the two partners per required
// language before blending.
func CoupleLanguageScore(a, b, required map[string]language.Level, primary string) float64 {
	best := make(map[string]language.Level, len(required))
	for lang := range required {
		la, lb := language.None, language.None
		if a != nil {
			la = a[lang]
		}
		if b != nil {
			lb = b[lang]
		}
		if lb > la {
			best[lang] = lb
		} else {
			best[lang] = la
		}
	}
	return LanguageScore(best, required, primary)
}

func singleLanguageScore(cand, req language.Level) float64 {
	if cand >= req {
		return 100
	}
	score := float64(cand) / float64(req) * 80
	if score < 20 {
		return 20
	}
	return score
}
