// internal/services/report_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/models"
)

type ReportServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	svc        *ReportService
	student    *models.User
	supervisor *models.User
	cycle      *models.ReportCycle
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.svc = NewReportService(suite.db)

	suite.student = createTestUser(suite.T(), suite.db, models.UserTypeStudent)
	company := createTestUser(suite.T(), suite.db, models.UserTypeCompany)
	suite.supervisor = createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)
	job := createTestJob(suite.T(), suite.db, company.ID)
	application := createHiredApplication(suite.T(), suite.db,
		suite.student.ID, company.ID, suite.supervisor.ID, job.ID)

	err := suite.svc.StartCycle(suite.db, application.ID, suite.student.ID, suite.supervisor.ID,
		*application.StartDate, *application.EndDate)
	suite.Require().NoError(err)
	suite.cycle = &models.ReportCycle{}
	suite.Require().NoError(suite.db.Where("application_id = ?", application.ID).First(suite.cycle).Error)
}

func (suite *ReportServiceTestSuite) TestCycleWeeksDerivedFromDates() {
	// Three months is roughly thirteen weeks.
	suite.GreaterOrEqual(suite.cycle.WeeksTotal, 12)
	suite.True(suite.cycle.IsActive)
}

func (suite *ReportServiceTestSuite) TestSubmitReport() {
	report, err := suite.svc.SubmitReport(suite.student.ID, suite.cycle.ID, &SubmitReportRequest{
		WeekNumber: 1,
		Summary:    "Set up the development environment and fixed two onboarding bugs.",
	})
	suite.Require().NoError(err)
	suite.Equal(1, report.WeekNumber)
	suite.Equal(models.ReportStatusSubmitted, report.Status)
}

func (suite *ReportServiceTestSuite) TestDuplicateWeekRejected() {
	_, err := suite.svc.SubmitReport(suite.student.ID, suite.cycle.ID, &SubmitReportRequest{
		WeekNumber: 2,
		Summary:    "Implemented the first feature of the internship project.",
	})
	suite.Require().NoError(err)

	_, err = suite.svc.SubmitReport(suite.student.ID, suite.cycle.ID, &SubmitReportRequest{
		WeekNumber: 2,
		Summary:    "Trying to file the same week twice.",
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeDuplicateSubmission))
}

func (suite *ReportServiceTestSuite) TestWeekBeyondCycleRejected() {
	_, err := suite.svc.SubmitReport(suite.student.ID, suite.cycle.ID, &SubmitReportRequest{
		WeekNumber: suite.cycle.WeeksTotal + 1,
		Summary:    "A report for a week that does not exist.",
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeValidation))
}

func (suite *ReportServiceTestSuite) TestReviewReport() {
	report, err := suite.svc.SubmitReport(suite.student.ID, suite.cycle.ID, &SubmitReportRequest{
		WeekNumber: 1,
		Summary:    "Completed the onboarding tasks and first ticket.",
	})
	suite.Require().NoError(err)

	reviewed, err := suite.svc.ReviewReport(suite.supervisor.ID, report.ID, &ReviewReportRequest{
		Rating: models.ReportRatingGood,
	})
	suite.Require().NoError(err)
	suite.Equal(models.ReportStatusReviewed, reviewed.Status)
	suite.Equal(models.ReportRatingGood, *reviewed.Rating)
	suite.Equal(suite.supervisor.ID, *reviewed.ReviewedBy)

	// A review is recorded once.
	_, err = suite.svc.ReviewReport(suite.supervisor.ID, report.ID, &ReviewReportRequest{
		Rating: models.ReportRatingBad,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (suite *ReportServiceTestSuite) TestOnlySupervisorOfRecordReviews() {
	report, err := suite.svc.SubmitReport(suite.student.ID, suite.cycle.ID, &SubmitReportRequest{
		WeekNumber: 1,
		Summary:    "Weekly summary with enough detail to pass validation.",
	})
	suite.Require().NoError(err)

	other := createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)
	_, err = suite.svc.ReviewReport(other.ID, report.ID, &ReviewReportRequest{
		Rating: models.ReportRatingGood,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func TestCurrentWeek(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, CurrentWeek(start, start.Add(-time.Hour)))
	assert.Equal(t, 1, CurrentWeek(start, start))
	assert.Equal(t, 1, CurrentWeek(start, start.AddDate(0, 0, 6)))
	assert.Equal(t, 2, CurrentWeek(start, start.AddDate(0, 0, 7)))
	assert.Equal(t, 5, CurrentWeek(start, start.AddDate(0, 0, 30)))
}
