// internal/grading/grading.go
package grading

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Band maps the lowest percentage (inclusive) at which a letter grade applies.
type Band struct {
	Grade      string
	MinPercent float64
}

// Table is a percentage-to-letter-grade policy. The breakpoints are a
// configurable input, not a constant of the system.
type Table struct {
	bands []Band // sorted by MinPercent descending
}

func NewTable(bands []Band) (*Table, error) {
	if len(bands) == 0 {
		return nil, errors.New("grade table requires at least one band")
	}
	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinPercent > sorted[j].MinPercent
	})
	if sorted[len(sorted)-1].MinPercent > 0 {
		return nil, errors.New("grade table must cover 0 percent")
	}
	return &Table{bands: sorted}, nil
}

// ParseTable parses a band spec of the form "A+:90,A:85,B+:80,...,F:0".
func ParseTable(spec string) (*Table, error) {
	parts := strings.Split(spec, ",")
	bands := make([]Band, 0, len(parts))
	for _, part := range parts {
		pair := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(pair) != 2 {
			return nil, fmt.Errorf("invalid grade band %q", part)
		}
		min, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid grade band threshold %q: %w", pair[1], err)
		}
		bands = append(bands, Band{Grade: pair[0], MinPercent: min})
	}
	return NewTable(bands)
}

func DefaultTable() *Table {
	t, _ := NewTable([]Band{
		{Grade: "A+", MinPercent: 90},
		{Grade: "A", MinPercent: 85},
		{Grade: "B+", MinPercent: 80},
		{Grade: "B", MinPercent: 75},
		{Grade: "C+", MinPercent: 70},
		{Grade: "C", MinPercent: 60},
		{Grade: "D", MinPercent: 50},
		{Grade: "F", MinPercent: 0},
	})
	return t
}

func (t *Table) Grade(percent float64) string {
	for _, band := range t.bands {
		if percent >= band.MinPercent {
			return band.Grade
		}
	}
	return t.bands[len(t.bands)-1].Grade
}

// Weights are the final-evaluation proportions. They are a policy choice and
// must sum to 1.
type Weights struct {
	Supervisor float64
	Company    float64
}

func (w Weights) Validate() error {
	if w.Supervisor < 0 || w.Company < 0 {
		return errors.New("grading weights must be non-negative")
	}
	if math.Abs(w.Supervisor+w.Company-1.0) > 1e-9 {
		return fmt.Errorf("grading weights must sum to 1, got %.4f", w.Supervisor+w.Company)
	}
	return nil
}

func DefaultWeights() Weights {
	return Weights{Supervisor: 0.6, Company: 0.4}
}

// Combine merges the two normalized percentages into the combined 0-100
// score, rounded to two decimals.
func Combine(supervisorPercent, companyPercent float64, w Weights) float64 {
	combined := supervisorPercent*w.Supervisor + companyPercent*w.Company
	return math.Round(combined*100) / 100
}

// Percent normalizes marks against a maximum on a 0-100 scale.
func Percent(total, max int) float64 {
	if max <= 0 {
		return 0
	}
	return math.Round(float64(total)/float64(max)*100*100) / 100
}
