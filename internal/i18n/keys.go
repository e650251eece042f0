// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Access control
	KeyAccessDenied = "access.denied"

	// Users
	KeyUserNotFound  = "user.not_found"
	KeyUserSuspended = "user.suspended"

	// Jobs
	KeyJobCreated     = "job.created"
	KeyJobUpdated     = "job.updated"
	KeyJobDeactivated = "job.deactivated"
	KeyJobNotFound    = "job.not_found"

	// Applications
	KeyApplicationCreated        = "application.created"
	KeyApplicationNotFound       = "application.not_found"
	KeyApplicationDecisionSaved  = "application.decision_saved"
	KeyApplicationInterviewSet   = "application.interview_scheduled"
	KeyApplicationInterviewDone  = "application.interview_done"
	KeyApplicationHired          = "application.hired"
	KeyApplicationRejected       = "application.rejected"

	// Evaluations
	KeyEvaluationSubmitted  = "evaluation.submitted"
	KeyEvaluationNotFound   = "evaluation.not_found"
	KeyEvaluationOverridden = "evaluation.overridden"
	KeyEvaluationStatusSet  = "evaluation.status_updated"

	// Final results
	KeyFinalResultSent     = "final_result.sent"
	KeyFinalResultNotReady = "final_result.not_ready"
	KeyFinalResultNotFound = "final_result.not_found"

	// Offer letters
	KeyOfferNotFound  = "offer.not_found"
	KeyOfferResponded = "offer.responded"

	// Weekly reports
	KeyReportSubmitted = "report.submitted"
	KeyReportReviewed  = "report.reviewed"
	KeyReportNotFound  = "report.not_found"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
