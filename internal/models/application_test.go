// internal/models/application_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationTransitions(t *testing.T) {
	tests := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{ApplicationStatusPending, ApplicationStatusInterviewScheduled, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusPending, ApplicationStatusHired, false},
		{ApplicationStatusPending, ApplicationStatusInterviewDone, false},
		{ApplicationStatusInterviewScheduled, ApplicationStatusInterviewDone, true},
		{ApplicationStatusInterviewScheduled, ApplicationStatusHired, false},
		{ApplicationStatusInterviewDone, ApplicationStatusHired, true},
		{ApplicationStatusInterviewDone, ApplicationStatusRejected, true},
		{ApplicationStatusHired, ApplicationStatusRejected, false},
		{ApplicationStatusRejected, ApplicationStatusPending, false},
		{ApplicationStatusRejected, ApplicationStatusHired, false},
	}

	for _, tt := range tests {
		app := &Application{Status: tt.from}
		assert.Equal(t, tt.allowed, app.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, (&Application{Status: ApplicationStatusHired}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusRejected}).IsTerminal())
	assert.False(t, (&Application{Status: ApplicationStatusPending}).IsTerminal())
	assert.False(t, (&Application{Status: ApplicationStatusInterviewDone}).IsTerminal())
}

func TestComputeOverallStatus(t *testing.T) {
	tests := []struct {
		supervisor ApprovalStatus
		company    ApprovalStatus
		want       ApprovalStatus
	}{
		{ApprovalStatusPending, ApprovalStatusPending, ApprovalStatusPending},
		{ApprovalStatusApproved, ApprovalStatusPending, ApprovalStatusPending},
		{ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusPending},
		{ApprovalStatusApproved, ApprovalStatusApproved, ApprovalStatusApproved},
		{ApprovalStatusRejected, ApprovalStatusPending, ApprovalStatusRejected},
		{ApprovalStatusRejected, ApprovalStatusApproved, ApprovalStatusRejected},
		{ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusRejected},
		{ApprovalStatusRejected, ApprovalStatusRejected, ApprovalStatusRejected},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ComputeOverallStatus(tt.supervisor, tt.company),
			"supervisor=%s company=%s", tt.supervisor, tt.company)
	}
}

func TestEvaluationStatusTransitions(t *testing.T) {
	assert.True(t, CanTransitionEvaluationStatus(EvaluationStatusSubmitted, EvaluationStatusReviewed))
	assert.True(t, CanTransitionEvaluationStatus(EvaluationStatusSubmitted, EvaluationStatusFinalized))
	assert.True(t, CanTransitionEvaluationStatus(EvaluationStatusReviewed, EvaluationStatusFinalized))
	assert.False(t, CanTransitionEvaluationStatus(EvaluationStatusReviewed, EvaluationStatusSubmitted))
	assert.False(t, CanTransitionEvaluationStatus(EvaluationStatusFinalized, EvaluationStatusReviewed))
	assert.False(t, CanTransitionEvaluationStatus(EvaluationStatusFinalized, EvaluationStatusSubmitted))
}
