package response

// Summary aggregates a batch of validation results.
type Summary struct {
	Total       int `json:"total"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	TotalErrors int `json:"totalErrors"`

	// AverageValidationTime is in milliseconds; zero for an empty batch.
	AverageValidationTime float64 `json:"averageValidationTime"`
}

// Summarize aggregates pass/fail counts, error totals and mean validation time.
func Summarize(results []ValidationResult) Summary {
	s := Summary{Total: len(results)}
	if len(results) == 0 {
		return s
	}

	var total float64
	for _, r := range results {
		if r.Valid {
			s.Passed++
		} else {
			s.Failed++
		}
		s.TotalErrors += len(r.Errors)
		total += r.Performance.ValidationTime
	}
	s.AverageValidationTime = total / float64(len(results))
	return s
}
