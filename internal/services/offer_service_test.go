// internal/services/offer_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/apperrors"
	"github.com/internhub/internhub-backend/internal/models"
)

type OfferServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	svc     *OfferService
	student *models.User
	company *models.User
	offer   *models.OfferLetter
}

func (suite *OfferServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.svc = NewOfferService(suite.db, NewNotificationService(suite.db, newTestConfig()))

	suite.student = createTestUser(suite.T(), suite.db, models.UserTypeStudent)
	suite.company = createTestUser(suite.T(), suite.db, models.UserTypeCompany)
	supervisor := createTestUser(suite.T(), suite.db, models.UserTypeSupervisor)
	job := createTestJob(suite.T(), suite.db, suite.company.ID)
	application := createHiredApplication(suite.T(), suite.db,
		suite.student.ID, suite.company.ID, supervisor.ID, job.ID)

	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(0, 3, 0)
	suite.offer = &models.OfferLetter{
		ApplicationID: application.ID,
		StudentID:     suite.student.ID,
		CompanyID:     suite.company.ID,
		Position:      "Backend Intern",
		Department:    "Engineering",
		StartDate:     &start,
		EndDate:       &end,
		Status:        models.OfferStatusSent,
	}
	suite.Require().NoError(suite.db.Create(suite.offer).Error)
}

func (suite *OfferServiceTestSuite) TestRespondAccept() {
	offer, err := suite.svc.Respond(suite.student.ID, suite.offer.ID, &OfferResponseRequest{
		Response: models.OfferResponseAccepted,
		Comments: "Looking forward to starting.",
	})
	suite.Require().NoError(err)

	suite.Equal(models.OfferStatusAccepted, offer.Status)
	suite.Require().NotNil(offer.Response)
	suite.Equal(models.OfferResponseAccepted, *offer.Response)
	suite.NotNil(offer.RespondedAt)
	suite.True(offer.IsTerminal())
}

func (suite *OfferServiceTestSuite) TestSecondResponsePreservesFirst() {
	_, err := suite.svc.Respond(suite.student.ID, suite.offer.ID, &OfferResponseRequest{
		Response: models.OfferResponseAccepted,
	})
	suite.Require().NoError(err)

	_, err = suite.svc.Respond(suite.student.ID, suite.offer.ID, &OfferResponseRequest{
		Response: models.OfferResponseRejected,
	})
	suite.Require().True(apperrors.IsCode(err, apperrors.CodeAlreadyResponded))

	var appErr *apperrors.Error
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("accepted", appErr.Details["response"])

	var stored models.OfferLetter
	suite.Require().NoError(suite.db.First(&stored, suite.offer.ID).Error)
	suite.Equal(models.OfferStatusAccepted, stored.Status)
	suite.Equal(models.OfferResponseAccepted, *stored.Response)
}

func (suite *OfferServiceTestSuite) TestOnlyAddressedStudentMayRespond() {
	other := createTestUser(suite.T(), suite.db, models.UserTypeStudent)

	_, err := suite.svc.Respond(other.ID, suite.offer.ID, &OfferResponseRequest{
		Response: models.OfferResponseAccepted,
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeForbidden))

	var stored models.OfferLetter
	suite.Require().NoError(suite.db.First(&stored, suite.offer.ID).Error)
	suite.Equal(models.OfferStatusSent, stored.Status)
}

func (suite *OfferServiceTestSuite) TestInvalidResponseRejected() {
	_, err := suite.svc.Respond(suite.student.ID, suite.offer.ID, &OfferResponseRequest{
		Response: "maybe",
	})
	suite.True(apperrors.IsCode(err, apperrors.CodeValidation))
}

func (suite *OfferServiceTestSuite) TestListForStudent() {
	offers, err := suite.svc.ListForStudent(suite.student.ID)
	suite.Require().NoError(err)
	suite.Len(offers, 1)
}

func TestOfferServiceSuite(t *testing.T) {
	suite.Run(t, new(OfferServiceTestSuite))
}
