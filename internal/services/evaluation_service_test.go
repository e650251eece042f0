// internal/services/evaluation_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/grading"
	"github.com/internhub/internhub-backend/internal/models"
)

type EvaluationServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	svc         *EvaluationService
	student     *models.User
	company     *models.User
	supervisor  *models.User
	admin       *models.User
	application *models.Application
}

func (suite *EvaluationServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.svc = NewEvaluationService(suite.db, grading.DefaultTable())

	suite.student = createTestUser(suite.T(), suite.db, models.UserTypeStudent)
	suite.company = createTestUser(suite.T(), suite.db, models.UserTypeCompany)
	suite.supervisor = createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)
	suite.admin = createTestUser(suite.T(), suite.db, models.UserTypeAdmin)
	job := createTestJob(suite.T(), suite.db, suite.company.ID)
	suite.application = createHiredApplication(suite.T(), suite.db,
		suite.student.ID, suite.company.ID, suite.supervisor.ID, job.ID)
}

func (suite *EvaluationServiceTestSuite) TestSupervisorEvaluationComputesTotals() {
	evaluation, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
		Comments:      "Solid work throughout the term.",
	})
	suite.Require().NoError(err)

	suite.Equal(48, evaluation.TotalMarks)
	suite.Equal(60, evaluation.MaxMarks)
	suite.InDelta(80.0, evaluation.Percentage, 0.001)
	suite.Equal("B+", evaluation.Grade)
	suite.Equal(models.EvaluationStatusSubmitted, evaluation.Status)
	suite.False(evaluation.FinalResultSent)
}

func (suite *EvaluationServiceTestSuite) TestCompanyEvaluationComputesTotals() {
	evaluation, err := suite.svc.SubmitCompanyEvaluation(suite.company.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        companyScores(),
	})
	suite.Require().NoError(err)

	suite.Equal(35, evaluation.TotalMarks)
	suite.Equal(40, evaluation.MaxMarks)
	suite.InDelta(87.5, evaluation.Percentage, 0.001)
	suite.Equal("A", evaluation.Grade)
}

func (suite *EvaluationServiceTestSuite) TestDuplicateSubmissionLeavesOriginal() {
	first, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)

	different := supervisorScores()
	different["attendance"] = 3
	_, err = suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        different,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeDuplicateSubmission))

	var stored models.SupervisorEvaluation
	suite.Require().NoError(suite.db.Where("application_id = ?", suite.application.ID).First(&stored).Error)
	suite.Equal(first.ID, stored.ID)
	suite.Equal(48, stored.TotalMarks)
}

func (suite *EvaluationServiceTestSuite) TestOutOfRangeScoresRejected() {
	scores := supervisorScores()
	scores["attendance"] = 11

	_, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        scores,
	})
	suite.Require().True(apperrors.IsCode(err, apperrors.CodeValidation))

	var appErr *apperrors.Error
	suite.Require().ErrorAs(err, &appErr)
	suite.Contains(appErr.Details, "attendance")
}

func (suite *EvaluationServiceTestSuite) TestMissingCriterionRejected() {
	scores := supervisorScores()
	delete(scores, "presentation")

	_, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        scores,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeValidation))
}

func (suite *EvaluationServiceTestSuite) TestEvaluationRequiresHiredApplication() {
	job := createTestJob(suite.T(), suite.db, suite.company.ID)
	pending := &models.Application{
		StudentID:        suite.student.ID,
		JobID:            job.ID,
		CompanyID:        suite.company.ID,
		SupervisorID:     &suite.supervisor.ID,
		SupervisorStatus: models.ApprovalStatusPending,
		CompanyStatus:    models.ApprovalStatusPending,
		OverallStatus:    models.ApprovalStatusPending,
		Status:           models.ApplicationStatusPending,
	}
	suite.Require().NoError(suite.db.Create(pending).Error)

	_, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: pending.ID,
		Scores:        supervisorScores(),
	})
	suite.True(apperrors.IsCode(err, apperrors.CodePreconditionFailed))
}

func (suite *EvaluationServiceTestSuite) TestOnlyActorOfRecordMayEvaluate() {
	other := createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)

	_, err := suite.svc.SubmitSupervisorEvaluation(other.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (suite *EvaluationServiceTestSuite) TestStatusLadder() {
	evaluation, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)

	updated, err := suite.svc.UpdateSupervisorEvaluationStatus(evaluation.ID, &UpdateEvaluationStatusRequest{
		Status: models.EvaluationStatusReviewed,
	})
	suite.Require().NoError(err)
	suite.Equal(models.EvaluationStatusReviewed, updated.Status)

	updated, err = suite.svc.UpdateSupervisorEvaluationStatus(evaluation.ID, &UpdateEvaluationStatusRequest{
		Status: models.EvaluationStatusFinalized,
	})
	suite.Require().NoError(err)
	suite.Equal(models.EvaluationStatusFinalized, updated.Status)

	// Finalized is terminal.
	_, err = suite.svc.UpdateSupervisorEvaluationStatus(evaluation.ID, &UpdateEvaluationStatusRequest{
		Status: models.EvaluationStatusReviewed,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (suite *EvaluationServiceTestSuite) TestScorecardReadsScopedToActorsOfRecord() {
	evaluation, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)

	otherSupervisor := createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)
	_, err = suite.svc.GetSupervisorEvaluation(otherSupervisor.ID, models.UserTypeSupervisor, suite.application.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))

	otherCompany := createTestUser(suite.T(), suite.db, models.UserTypeCompany)
	_, err = suite.svc.GetSupervisorEvaluation(otherCompany.ID, models.UserTypeCompany, suite.application.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))

	got, err := suite.svc.GetSupervisorEvaluation(suite.supervisor.ID, models.UserTypeSupervisor, suite.application.ID)
	suite.Require().NoError(err)
	suite.Equal(evaluation.ID, got.ID)

	got, err = suite.svc.GetSupervisorEvaluation(suite.admin.ID, models.UserTypeAdmin, suite.application.ID)
	suite.Require().NoError(err)
	suite.Equal(evaluation.ID, got.ID)
}

func (suite *EvaluationServiceTestSuite) TestStudentReadsScoresOnlyAfterDelivery() {
	_, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)

	_, err = suite.svc.GetSupervisorEvaluation(suite.student.ID, models.UserTypeStudent, suite.application.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeNotFound))

	suite.Require().NoError(suite.db.Model(&models.SupervisorEvaluation{}).
		Where("application_id = ?", suite.application.ID).
		Update("final_result_sent", true).Error)

	got, err := suite.svc.GetSupervisorEvaluation(suite.student.ID, models.UserTypeStudent, suite.application.ID)
	suite.Require().NoError(err)
	suite.Equal(48, got.TotalMarks)
}

func (suite *EvaluationServiceTestSuite) TestOverrideRecomputesAndAudits() {
	evaluation, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)

	corrected := supervisorScores()
	corrected["technical_knowledge"] = 10
	corrected["problem_solving"] = 10

	overridden, err := suite.svc.OverrideSupervisorScores(suite.admin.ID, evaluation.ID, &OverrideScoresRequest{
		Scores: corrected,
		Reason: "Marks entered against the wrong student",
	})
	suite.Require().NoError(err)
	suite.Equal(52, overridden.TotalMarks)
	suite.InDelta(86.67, overridden.Percentage, 0.01)
	suite.Equal("A", overridden.Grade)

	var audit models.AuditLog
	suite.Require().NoError(suite.db.
		Where("action = ? AND resource_id = ?", "evaluation.override_scores", evaluation.ID).
		First(&audit).Error)
	suite.Equal("Marks entered against the wrong student", audit.Reason)
	suite.NotNil(audit.OldValues)
	suite.NotNil(audit.NewValues)
}

func (suite *EvaluationServiceTestSuite) TestOverrideRequiresReason() {
	evaluation, err := suite.svc.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)

	_, err = suite.svc.OverrideSupervisorScores(suite.admin.ID, evaluation.ID, &OverrideScoresRequest{
		Scores: supervisorScores(),
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestEvaluationServiceSuite(t *testing.T) {
	suite.Run(t, new(EvaluationServiceTestSuite))
}
