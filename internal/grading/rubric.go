// internal/grading/rubric.go
package grading

import (
	"fmt"
)

// Criterion is a single rated item on a scorecard with its declared bounds.
type Criterion struct {
	Key   string
	Label string
	Min   int
	Max   int
}

// Rubric declares the criteria set a scorecard must rate. Criteria sets are a
// policy input; totals are always computed server-side from the rubric.
type Rubric struct {
	Name     string
	Criteria []Criterion
}

func (r Rubric) MaxMarks() int {
	max := 0
	for _, c := range r.Criteria {
		max += c.Max
	}
	return max
}

// Score validates the submitted criteria against the rubric and returns the
// server-computed total. Missing, unknown, or out-of-range criteria are
// reported per field.
func (r Rubric) Score(scores map[string]int) (int, map[string]interface{}) {
	problems := make(map[string]interface{})
	total := 0

	for _, c := range r.Criteria {
		value, ok := scores[c.Key]
		if !ok {
			problems[c.Key] = "missing"
			continue
		}
		if value < c.Min || value > c.Max {
			problems[c.Key] = fmt.Sprintf("must be between %d and %d", c.Min, c.Max)
			continue
		}
		total += value
	}

	for key := range scores {
		if !r.hasCriterion(key) {
			problems[key] = "unknown criterion"
		}
	}

	if len(problems) > 0 {
		return 0, problems
	}
	return total, nil
}

func (r Rubric) hasCriterion(key string) bool {
	for _, c := range r.Criteria {
		if c.Key == key {
			return true
		}
	}
	return false
}

// SupervisorRubric is the academic scorecard: six criteria rated 1-10 (max 60).
func SupervisorRubric() Rubric {
	return Rubric{
		Name: "supervisor",
		Criteria: []Criterion{
			{Key: "report_quality", Label: "Report Quality", Min: 1, Max: 10},
			{Key: "attendance", Label: "Attendance", Min: 1, Max: 10},
			{Key: "presentation", Label: "Presentation", Min: 1, Max: 10},
			{Key: "technical_knowledge", Label: "Technical Knowledge", Min: 1, Max: 10},
			{Key: "problem_solving", Label: "Problem Solving", Min: 1, Max: 10},
			{Key: "professionalism", Label: "Professionalism", Min: 1, Max: 10},
		},
	}
}

// CompanyRubric is the workplace scorecard: four criteria rated 1-10 (max 40).
func CompanyRubric() Rubric {
	return Rubric{
		Name: "company",
		Criteria: []Criterion{
			{Key: "work_quality", Label: "Work Quality", Min: 1, Max: 10},
			{Key: "punctuality", Label: "Punctuality", Min: 1, Max: 10},
			{Key: "teamwork", Label: "Teamwork", Min: 1, Max: 10},
			{Key: "initiative", Label: "Initiative", Min: 1, Max: 10},
		},
	}
}
