package matching

import "strings"

// AvailabilityScore compares the candidate's declared work-type preferences
// against the posting's type. An empty preference list means no opinion.
func AvailabilityScore(workTypes []string, jobType string) float64 {
	if len(workTypes) == 0 {
		return 80
	}
	for _, wt := range workTypes {
		if strings.EqualFold(strings.TrimSpace(wt), strings.TrimSpace(jobType)) {
			return 100
		}
	}
	return 40
}
