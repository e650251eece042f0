// internal/grading/grading_test.go
package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableGrade(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		percent float64
		grade   string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{85, "A"},
		{83, "B+"},
		{80, "B+"},
		{79.99, "B"},
		{75, "B"},
		{70, "C+"},
		{60, "C"},
		{50, "D"},
		{49.99, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.grade, table.Grade(tt.percent), "percent %.2f", tt.percent)
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable("A:80,B:60,F:0")
	require.NoError(t, err)

	assert.Equal(t, "A", table.Grade(80))
	assert.Equal(t, "B", table.Grade(79.9))
	assert.Equal(t, "F", table.Grade(10))
}

func TestParseTableErrors(t *testing.T) {
	_, err := ParseTable("A:80,B")
	assert.Error(t, err)

	_, err = ParseTable("A:eighty")
	assert.Error(t, err)

	// A table that cannot grade every percentage is invalid.
	_, err = ParseTable("A:80,B:60")
	assert.Error(t, err)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.NoError(t, Weights{Supervisor: 0.5, Company: 0.5}.Validate())

	assert.Error(t, Weights{Supervisor: 0.7, Company: 0.4}.Validate())
	assert.Error(t, Weights{Supervisor: -0.2, Company: 1.2}.Validate())
}

func TestCombine(t *testing.T) {
	// 48/60 and 35/40 at the default 60/40 split.
	supervisorPercent := Percent(48, 60)
	companyPercent := Percent(35, 40)

	assert.InDelta(t, 80.0, supervisorPercent, 0.001)
	assert.InDelta(t, 87.5, companyPercent, 0.001)

	combined := Combine(supervisorPercent, companyPercent, DefaultWeights())
	assert.InDelta(t, 83.0, combined, 0.001)
	assert.Equal(t, "B+", DefaultTable().Grade(combined))
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 0, Percent(10, 0), 0.001)
	assert.InDelta(t, 100, Percent(40, 40), 0.001)
	assert.InDelta(t, 86.67, Percent(52, 60), 0.001)
}

func TestRubricScore(t *testing.T) {
	rubric := SupervisorRubric()
	assert.Equal(t, 60, rubric.MaxMarks())

	full := map[string]int{
		"report_quality":      8,
		"attendance":          8,
		"presentation":        8,
		"technical_knowledge": 8,
		"problem_solving":     8,
		"professionalism":     8,
	}
	total, problems := rubric.Score(full)
	assert.Nil(t, problems)
	assert.Equal(t, 48, total)
}

func TestRubricScoreProblems(t *testing.T) {
	rubric := CompanyRubric()

	_, problems := rubric.Score(map[string]int{
		"work_quality": 11,
		"punctuality":  0,
		"teamwork":     5,
		"extra":        3,
	})
	require.NotNil(t, problems)
	assert.Contains(t, problems, "work_quality")
	assert.Contains(t, problems, "punctuality")
	assert.Contains(t, problems, "initiative")
	assert.Contains(t, problems, "extra")
	assert.NotContains(t, problems, "teamwork")
}
