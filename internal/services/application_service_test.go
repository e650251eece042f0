// internal/services/application_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/models"
)

type ApplicationServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	svc        *ApplicationService
	student    *models.User
	company    *models.User
	supervisor *models.User
	job        *models.Job
}

func (suite *ApplicationServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	notifications := NewNotificationService(suite.db, newTestConfig())
	suite.svc = NewApplicationService(suite.db, notifications, nil, NewReportService(suite.db))

	suite.student = createTestUser(suite.T(), suite.db, models.UserTypeStudent)
	suite.company = createTestUser(suite.T(), suite.db, models.UserTypeCompany)
	suite.supervisor = createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)
	suite.job = createTestJob(suite.T(), suite.db, suite.company.ID)
}

func (suite *ApplicationServiceTestSuite) apply() *models.Application {
	application, err := suite.svc.Apply(suite.student.ID, &ApplyRequest{
		JobID:        suite.job.ID,
		SupervisorID: suite.supervisor.ID,
	})
	suite.Require().NoError(err)
	return application
}

func (suite *ApplicationServiceTestSuite) approveBothSides(app *models.Application) {
	_, err := suite.svc.SetApproval(suite.supervisor.ID, models.UserTypeSupervisor, app.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusApproved,
	})
	suite.Require().NoError(err)
	_, err = suite.svc.SetApproval(suite.company.ID, models.UserTypeCompany, app.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusApproved,
	})
	suite.Require().NoError(err)
}

func (suite *ApplicationServiceTestSuite) advanceToInterviewDone(app *models.Application) {
	_, err := suite.svc.ScheduleInterview(suite.company.ID, app.ID, &ScheduleInterviewRequest{
		Mode: models.InterviewModeRemote,
		Time: time.Now().Add(48 * time.Hour),
	})
	suite.Require().NoError(err)
	_, err = suite.svc.MarkInterviewDone(suite.company.ID, app.ID)
	suite.Require().NoError(err)
}

func (suite *ApplicationServiceTestSuite) hireRequest() *DecideRequest {
	start := time.Now().AddDate(0, 0, 14)
	end := start.AddDate(0, 2, 0)
	return &DecideRequest{
		Outcome:   "hire",
		StartDate: &start,
		EndDate:   &end,
	}
}

func (suite *ApplicationServiceTestSuite) TestApplyCreatesPendingApplication() {
	application := suite.apply()

	suite.Equal(models.ApplicationStatusPending, application.Status)
	suite.Equal(models.ApprovalStatusPending, application.SupervisorStatus)
	suite.Equal(models.ApprovalStatusPending, application.CompanyStatus)
	suite.Equal(models.ApprovalStatusPending, application.OverallStatus)
	suite.Equal(suite.company.ID, application.CompanyID)
}

func (suite *ApplicationServiceTestSuite) TestApplyTwiceIsDuplicate() {
	suite.apply()

	_, err := suite.svc.Apply(suite.student.ID, &ApplyRequest{
		JobID:        suite.job.ID,
		SupervisorID: suite.supervisor.ID,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeDuplicateSubmission))
}

func (suite *ApplicationServiceTestSuite) TestApplyToInactiveJobFails() {
	suite.Require().NoError(suite.db.Model(suite.job).Update("is_active", false).Error)

	_, err := suite.svc.Apply(suite.student.ID, &ApplyRequest{
		JobID:        suite.job.ID,
		SupervisorID: suite.supervisor.ID,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodePreconditionFailed))
}

func (suite *ApplicationServiceTestSuite) TestOverallApprovedOnlyWhenBothApprove() {
	application := suite.apply()

	updated, err := suite.svc.SetApproval(suite.supervisor.ID, models.UserTypeSupervisor, application.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusApproved,
	})
	suite.Require().NoError(err)
	suite.Equal(models.ApprovalStatusPending, updated.OverallStatus)

	updated, err = suite.svc.SetApproval(suite.company.ID, models.UserTypeCompany, application.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusApproved,
	})
	suite.Require().NoError(err)
	suite.Equal(models.ApprovalStatusApproved, updated.OverallStatus)
}

func (suite *ApplicationServiceTestSuite) TestOverallRejectedWhenEitherRejects() {
	application := suite.apply()

	updated, err := suite.svc.SetApproval(suite.supervisor.ID, models.UserTypeSupervisor, application.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusRejected,
	})
	suite.Require().NoError(err)
	suite.Equal(models.ApprovalStatusRejected, updated.OverallStatus)
}

func (suite *ApplicationServiceTestSuite) TestApprovalIsDecidedOnce() {
	application := suite.apply()

	_, err := suite.svc.SetApproval(suite.supervisor.ID, models.UserTypeSupervisor, application.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusApproved,
	})
	suite.Require().NoError(err)

	_, err = suite.svc.SetApproval(suite.supervisor.ID, models.UserTypeSupervisor, application.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusRejected,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (suite *ApplicationServiceTestSuite) TestOnlyActorOfRecordMayDecide() {
	application := suite.apply()
	otherSupervisor := createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)

	_, err := suite.svc.SetApproval(otherSupervisor.ID, models.UserTypeSupervisor, application.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusApproved,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (suite *ApplicationServiceTestSuite) TestScheduleInterviewOnlyFromPending() {
	application := suite.apply()

	_, err := suite.svc.ScheduleInterview(suite.company.ID, application.ID, &ScheduleInterviewRequest{
		Mode: models.InterviewModeOnSite,
		Time: time.Now().Add(24 * time.Hour),
	})
	suite.Require().NoError(err)

	_, err = suite.svc.ScheduleInterview(suite.company.ID, application.ID, &ScheduleInterviewRequest{
		Mode: models.InterviewModeRemote,
		Time: time.Now().Add(72 * time.Hour),
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (suite *ApplicationServiceTestSuite) TestHireRequiresBothApprovals() {
	application := suite.apply()
	suite.advanceToInterviewDone(application)

	_, err := suite.svc.Decide(suite.company.ID, application.ID, suite.hireRequest())
	suite.True(apperrors.IsCode(err, apperrors.CodePreconditionFailed))
}

func (suite *ApplicationServiceTestSuite) TestHireCreatesOfferAndReportCycle() {
	application := suite.apply()
	suite.approveBothSides(application)
	suite.advanceToInterviewDone(application)

	hired, err := suite.svc.Decide(suite.company.ID, application.ID, suite.hireRequest())
	suite.Require().NoError(err)
	suite.Equal(models.ApplicationStatusHired, hired.Status)
	suite.NotNil(hired.HiredAt)
	suite.Equal(suite.job.Title, hired.Position)

	var offer models.OfferLetter
	suite.Require().NoError(suite.db.Where("application_id = ?", application.ID).First(&offer).Error)
	suite.Equal(models.OfferStatusSent, offer.Status)

	var cycle models.ReportCycle
	suite.Require().NoError(suite.db.Where("application_id = ?", application.ID).First(&cycle).Error)
	suite.True(cycle.IsActive)
	suite.GreaterOrEqual(cycle.WeeksTotal, 1)
}

func (suite *ApplicationServiceTestSuite) TestHireFromWrongStateFails() {
	application := suite.apply()
	suite.approveBothSides(application)

	_, err := suite.svc.Decide(suite.company.ID, application.ID, suite.hireRequest())
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (suite *ApplicationServiceTestSuite) TestHiredApplicationCannotBeHiredAgain() {
	application := suite.apply()
	suite.approveBothSides(application)
	suite.advanceToInterviewDone(application)

	_, err := suite.svc.Decide(suite.company.ID, application.ID, suite.hireRequest())
	suite.Require().NoError(err)

	_, err = suite.svc.Decide(suite.company.ID, application.ID, suite.hireRequest())
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))

	// The first hire's offer letter is the only one.
	var offers int64
	suite.db.Model(&models.OfferLetter{}).Where("application_id = ?", application.ID).Count(&offers)
	suite.Equal(int64(1), offers)
}

func (suite *ApplicationServiceTestSuite) TestStudentHoldsAtMostOneHire() {
	first := suite.apply()
	suite.approveBothSides(first)
	suite.advanceToInterviewDone(first)
	_, err := suite.svc.Decide(suite.company.ID, first.ID, suite.hireRequest())
	suite.Require().NoError(err)

	secondJob := createTestJob(suite.T(), suite.db, suite.company.ID)
	second, err := suite.svc.Apply(suite.student.ID, &ApplyRequest{
		JobID:        secondJob.ID,
		SupervisorID: suite.supervisor.ID,
	})
	suite.Require().NoError(err)
	suite.approveBothSides(second)
	suite.advanceToInterviewDone(second)

	_, err = suite.svc.Decide(suite.company.ID, second.ID, suite.hireRequest())
	suite.True(apperrors.IsCode(err, apperrors.CodeConflictingState))

	// The failed hire leaves no partial side effects behind.
	var offers int64
	suite.db.Model(&models.OfferLetter{}).Where("application_id = ?", second.ID).Count(&offers)
	suite.Zero(offers)

	var reloaded models.Application
	suite.Require().NoError(suite.db.First(&reloaded, second.ID).Error)
	suite.Equal(models.ApplicationStatusInterviewDone, reloaded.Status)
}

func (suite *ApplicationServiceTestSuite) TestRejectedApplicationIsTerminal() {
	application := suite.apply()
	suite.advanceToInterviewDone(application)

	_, err := suite.svc.Decide(suite.company.ID, application.ID, &DecideRequest{Outcome: "reject"})
	suite.Require().NoError(err)

	_, err = suite.svc.SetApproval(suite.supervisor.ID, models.UserTypeSupervisor, application.ID, &ApprovalRequest{
		Decision: models.ApprovalStatusApproved,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))

	_, err = suite.svc.MarkInterviewDone(suite.company.ID, application.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (suite *ApplicationServiceTestSuite) TestListApplicationsScopedByRole() {
	suite.apply()
	otherStudent := createTestUser(suite.T(), suite.db, models.UserTypeStudent)
	_, err := suite.svc.Apply(otherStudent.ID, &ApplyRequest{
		JobID:        suite.job.ID,
		SupervisorID: suite.supervisor.ID,
	})
	suite.Require().NoError(err)

	mine, total, err := suite.svc.ListApplications(suite.student.ID, models.UserTypeStudent, ApplicationSearchParams{})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(mine, 1)

	all, total, err := suite.svc.ListApplications(suite.company.ID, models.UserTypeCompany, ApplicationSearchParams{})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(all, 2)
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}
