package dataset

import "math"

// Progress is the aggregate completion rollup over the working set.
type Progress struct {
	Total             int `json:"total"`
	Completed         int `json:"completed"`
	NotStarted        int `json:"notStarted"`
	InProgress        int `json:"inProgress"`
	AverageCompletion int `json:"averageCompletion"`
}

// OverallProgress counts rows by completion band and averages completion
// across the working set. An empty set yields all zeroes.
func (d *Dataset) OverallProgress() Progress {
	p := Progress{Total: len(d.working)}
	if p.Total == 0 {
		return p
	}

	sum := 0
	for _, row := range d.working {
		sum += row.Completion
		switch {
		case row.Completion == 100:
			p.Completed++
		case row.Completion == 0:
			p.NotStarted++
		default:
			p.InProgress++
		}
	}
	p.AverageCompletion = int(math.Round(float64(sum) / float64(p.Total)))
	return p
}
