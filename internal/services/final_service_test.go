// internal/services/final_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/grading"
	"github.com/internhub/internhub-backend/internal/models"
)

type fakeRenderer struct {
	calls int
	fail  bool
}

func (f *fakeRenderer) RenderFinalResult(application *models.Application, result *FinalResult) (*Document, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("render failed")
	}
	return &Document{URL: "http://example.com/result.html", Key: "final-results/result.html"}, nil
}

type fakeDispatcher struct {
	calls int
	fail  bool
}

func (f *fakeDispatcher) DispatchFinalResult(application *models.Application, result *FinalResult, doc *Document) error {
	f.calls++
	if f.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

type FinalServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	svc         *FinalEvaluationService
	evaluations *EvaluationService
	renderer    *fakeRenderer
	dispatcher  *fakeDispatcher
	student     *models.User
	company     *models.User
	supervisor  *models.User
	application *models.Application
}

func (suite *FinalServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.renderer = &fakeRenderer{}
	suite.dispatcher = &fakeDispatcher{}

	var err error
	suite.svc, err = NewFinalEvaluationService(suite.db, grading.DefaultWeights(), grading.DefaultTable(), suite.renderer, suite.dispatcher)
	suite.Require().NoError(err)
	suite.evaluations = NewEvaluationService(suite.db, grading.DefaultTable())

	suite.student = createTestUser(suite.T(), suite.db, models.UserTypeStudent)
	suite.company = createTestUser(suite.T(), suite.db, models.UserTypeCompany)
	suite.supervisor = createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)
	job := createTestJob(suite.T(), suite.db, suite.company.ID)
	suite.application = createHiredApplication(suite.T(), suite.db,
		suite.student.ID, suite.company.ID, suite.supervisor.ID, job.ID)
}

func (suite *FinalServiceTestSuite) submitBothEvaluations() {
	_, err := suite.evaluations.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)
	_, err = suite.evaluations.SubmitCompanyEvaluation(suite.company.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        companyScores(),
	})
	suite.Require().NoError(err)
}

func (suite *FinalServiceTestSuite) TestNotReadyWithoutBothScorecards() {
	result, err := suite.svc.ComputeFinal(suite.supervisor.ID, suite.application.ID)
	suite.Require().NoError(err)
	suite.False(result.Ready)
	suite.Zero(result.CombinedScore)

	_, err = suite.evaluations.SubmitSupervisorEvaluation(suite.supervisor.ID, &SubmitEvaluationRequest{
		ApplicationID: suite.application.ID,
		Scores:        supervisorScores(),
	})
	suite.Require().NoError(err)

	// One side alone never produces a score: a missing scorecard is not zero.
	result, err = suite.svc.ComputeFinal(suite.supervisor.ID, suite.application.ID)
	suite.Require().NoError(err)
	suite.False(result.Ready)
	suite.Zero(result.CombinedScore)
}

func (suite *FinalServiceTestSuite) TestComputeCombinesWeightedPercentages() {
	suite.submitBothEvaluations()

	result, err := suite.svc.ComputeFinal(suite.supervisor.ID, suite.application.ID)
	suite.Require().NoError(err)
	suite.True(result.Ready)
	suite.InDelta(80.0, result.SupervisorPercent, 0.001)
	suite.InDelta(87.5, result.CompanyPercent, 0.001)
	// 0.6*80 + 0.4*87.5 = 83.00
	suite.InDelta(83.0, result.CombinedScore, 0.001)
	suite.Equal("B+", result.Grade)
	suite.False(result.Sent)
}

func (suite *FinalServiceTestSuite) TestComputeIsDeterministic() {
	suite.submitBothEvaluations()

	first, err := suite.svc.ComputeFinal(suite.supervisor.ID, suite.application.ID)
	suite.Require().NoError(err)
	second, err := suite.svc.ComputeFinal(suite.supervisor.ID, suite.application.ID)
	suite.Require().NoError(err)

	suite.Equal(first.CombinedScore, second.CombinedScore)
	suite.Equal(first.Grade, second.Grade)
}

func (suite *FinalServiceTestSuite) TestSendRequiresReadiness() {
	_, err := suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodePreconditionFailed))
	suite.Zero(suite.dispatcher.calls)
}

func (suite *FinalServiceTestSuite) TestSendDeliversExactlyOnce() {
	suite.submitBothEvaluations()

	result, err := suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.Require().NoError(err)
	suite.True(result.Sent)
	suite.NotNil(result.SentAt)
	suite.Equal(suite.supervisor.ID, *result.SentBy)
	suite.Equal(1, suite.renderer.calls)
	suite.Equal(1, suite.dispatcher.calls)

	// Second attempt surfaces the original delivery and dispatches nothing.
	_, err = suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.Require().True(apperrors.IsCode(err, apperrors.CodeAlreadySent))
	suite.Equal(1, suite.dispatcher.calls)

	var appErr *apperrors.Error
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(suite.supervisor.ID, appErr.Details["sent_by"])

	// The guard records the first actor.
	var evaluation models.SupervisorEvaluation
	suite.Require().NoError(suite.db.Where("application_id = ?", suite.application.ID).First(&evaluation).Error)
	suite.True(evaluation.FinalResultSent)
	suite.Equal(suite.supervisor.ID, *evaluation.FinalResultSentBy)
	suite.Equal(models.EvaluationStatusFinalized, evaluation.Status)
}

func (suite *FinalServiceTestSuite) TestOnlySupervisorOfRecordMaySend() {
	suite.submitBothEvaluations()
	other := createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)

	_, err := suite.svc.SendFinalResult(suite.application.ID, other.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))
	suite.Zero(suite.renderer.calls)
	suite.Zero(suite.dispatcher.calls)

	// Nothing was delivered and the supervisor of record can still send.
	var evaluation models.SupervisorEvaluation
	suite.Require().NoError(suite.db.Where("application_id = ?", suite.application.ID).First(&evaluation).Error)
	suite.False(evaluation.FinalResultSent)

	result, err := suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.Require().NoError(err)
	suite.Equal(suite.supervisor.ID, *result.SentBy)
}

func (suite *FinalServiceTestSuite) TestComputeScopedToSupervisorOfRecord() {
	suite.submitBothEvaluations()
	other := createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)

	_, err := suite.svc.ComputeFinal(other.ID, suite.application.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (suite *FinalServiceTestSuite) TestDispatchFailureLeavesGuardUnsetAndIsRetryable() {
	suite.submitBothEvaluations()
	suite.dispatcher.fail = true

	_, err := suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeDispatchFailed))

	var evaluation models.SupervisorEvaluation
	suite.Require().NoError(suite.db.Where("application_id = ?", suite.application.ID).First(&evaluation).Error)
	suite.False(evaluation.FinalResultSent)
	suite.Nil(evaluation.FinalResultSentAt)

	// Retry after the outage succeeds.
	suite.dispatcher.fail = false
	result, err := suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.Require().NoError(err)
	suite.True(result.Sent)
	suite.Equal(2, suite.dispatcher.calls)
}

func (suite *FinalServiceTestSuite) TestRenderFailureLeavesGuardUnset() {
	suite.submitBothEvaluations()
	suite.renderer.fail = true

	_, err := suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeDispatchFailed))
	suite.Zero(suite.dispatcher.calls)

	var evaluation models.SupervisorEvaluation
	suite.Require().NoError(suite.db.Where("application_id = ?", suite.application.ID).First(&evaluation).Error)
	suite.False(evaluation.FinalResultSent)
}

func (suite *FinalServiceTestSuite) TestStudentSeesResultOnlyAfterSend() {
	suite.submitBothEvaluations()

	_, err := suite.svc.ViewSentResult(suite.student.ID, models.UserTypeStudent, suite.application.ID)
	suite.True(apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.Require().NoError(err)

	result, err := suite.svc.ViewSentResult(suite.student.ID, models.UserTypeStudent, suite.application.ID)
	suite.Require().NoError(err)
	suite.True(result.Sent)
	suite.Equal("B+", result.Grade)
}

func (suite *FinalServiceTestSuite) TestListPlacementsPartitionsBySent() {
	suite.submitBothEvaluations()

	placements, err := suite.svc.ListPlacements(suite.supervisor.ID)
	suite.Require().NoError(err)
	suite.Require().Len(placements, 1)
	suite.True(placements[0].Result.Ready)
	suite.False(placements[0].Result.Sent)

	_, err = suite.svc.SendFinalResult(suite.application.ID, suite.supervisor.ID)
	suite.Require().NoError(err)

	placements, err = suite.svc.ListPlacements(suite.supervisor.ID)
	suite.Require().NoError(err)
	suite.Require().Len(placements, 1)
	suite.True(placements[0].Result.Sent)
}

func TestFinalServiceSuite(t *testing.T) {
	suite.Run(t, new(FinalServiceTestSuite))
}
