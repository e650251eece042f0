// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/internhub/internhub-backend/internal/config"
	"github.com/internhub/internhub-backend/internal/models"
)

// NotificationService creates in-app notification rows and sends the
// corresponding emails. It is the delivery collaborator of the final-result
// send: a returned error there means nothing was delivered.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Application pipeline notifications

func (s *NotificationService) SendApplicationReceivedNotification(application *models.Application) error {
	notification := &models.AdminNotification{
		Type:                "application_received",
		Title:               "New Internship Application",
		Message:             fmt.Sprintf("Student %s applied for '%s'", application.Student.Username, application.Job.Title),
		Priority:            "medium",
		RelatedResourceType: "applications",
		RelatedResourceID:   &application.ID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	data := map[string]interface{}{
		"CompanyName":    application.Company.Username,
		"StudentName":    application.Student.Username,
		"JobTitle":       application.Job.Title,
		"ApplicationURL": fmt.Sprintf("%s/applications/%s", s.config.Frontend.BaseURL, application.ID),
	}

	subject := "New Application - " + application.Job.Title
	tmpl := s.getEmailTemplate("application_received")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(application.Company.Email, subject, body)
}

func (s *NotificationService) SendApprovalDecisionNotification(application *models.Application, decidedBy models.UserType, decision models.ApprovalStatus) error {
	var student models.User
	if err := s.db.First(&student, application.StudentID).Error; err != nil {
		return fmt.Errorf("student not found: %w", err)
	}

	data := map[string]interface{}{
		"StudentName":    student.Username,
		"DecidedBy":      string(decidedBy),
		"Decision":       string(decision),
		"OverallStatus":  string(application.OverallStatus),
		"ApplicationURL": fmt.Sprintf("%s/applications/%s", s.config.Frontend.BaseURL, application.ID),
	}

	subject := fmt.Sprintf("Application %s by %s", decision, decidedBy)
	tmpl := s.getEmailTemplate("approval_decision")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(student.Email, subject, body)
}

func (s *NotificationService) SendInterviewScheduledNotification(application *models.Application) error {
	mode := ""
	if application.InterviewMode != nil {
		mode = string(*application.InterviewMode)
	}
	when := ""
	if application.InterviewAt != nil {
		when = application.InterviewAt.Format("Mon, 02 Jan 2006 15:04 MST")
	}

	data := map[string]interface{}{
		"StudentName":   application.Student.Username,
		"JobTitle":      application.Job.Title,
		"InterviewMode": mode,
		"InterviewAt":   when,
	}

	subject := "Interview Scheduled - " + application.Job.Title
	tmpl := s.getEmailTemplate("interview_scheduled")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(application.Student.Email, subject, body)
}

func (s *NotificationService) SendApplicationRejectedNotification(application *models.Application) error {
	data := map[string]interface{}{
		"StudentName": application.Student.Username,
		"JobTitle":    application.Job.Title,
	}

	subject := "Application Update - " + application.Job.Title
	tmpl := s.getEmailTemplate("application_rejected")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(application.Student.Email, subject, body)
}

// Offer notifications

func (s *NotificationService) SendOfferLetterNotification(application *models.Application, offer *models.OfferLetter) error {
	notification := &models.AdminNotification{
		Type:                "offer_sent",
		Title:               "Offer Letter Sent",
		Message:             fmt.Sprintf("Offer letter sent to %s for '%s'", application.Student.Username, offer.Position),
		Priority:            "high",
		RelatedResourceType: "offer_letters",
		RelatedResourceID:   &offer.ID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	data := map[string]interface{}{
		"StudentName": application.Student.Username,
		"CompanyName": application.Company.Username,
		"Position":    offer.Position,
		"Department":  offer.Department,
		"OfferURL":    fmt.Sprintf("%s/offers/%s", s.config.Frontend.BaseURL, offer.ID),
		"ArtifactURL": offer.ArtifactURL,
	}

	subject := "Internship Offer - " + offer.Position
	tmpl := s.getEmailTemplate("offer_letter")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(application.Student.Email, subject, body)
}

func (s *NotificationService) SendOfferResponseNotification(offer *models.OfferLetter) error {
	response := ""
	if offer.Response != nil {
		response = string(*offer.Response)
	}

	notification := &models.AdminNotification{
		Type:                "offer_response",
		Title:               "Offer Letter Response",
		Message:             fmt.Sprintf("Student %s %s the offer for '%s'", offer.Student.Username, response, offer.Position),
		Priority:            "high",
		RelatedResourceType: "offer_letters",
		RelatedResourceID:   &offer.ID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	data := map[string]interface{}{
		"CompanyName": offer.Company.Username,
		"StudentName": offer.Student.Username,
		"Position":    offer.Position,
		"Response":    response,
		"Comments":    offer.ResponseComments,
	}

	subject := fmt.Sprintf("Offer %s - %s", response, offer.Position)
	tmpl := s.getEmailTemplate("offer_response")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(offer.Company.Email, subject, body)
}

// DispatchFinalResult delivers the combined final evaluation to the student.
// Any error here propagates so the delivery guard stays unset.
func (s *NotificationService) DispatchFinalResult(application *models.Application, result *FinalResult, doc *Document) error {
	data := map[string]interface{}{
		"StudentName":   application.Student.Username,
		"JobTitle":      application.Job.Title,
		"CompanyName":   application.Company.Username,
		"CombinedScore": fmt.Sprintf("%.2f", result.CombinedScore),
		"Grade":         result.Grade,
	}
	if doc != nil {
		data["ArtifactURL"] = doc.URL
	}

	subject := "Internship Final Result - " + application.Job.Title
	tmpl := s.getEmailTemplate("final_result")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	if err := s.sendEmail(application.Student.Email, subject, body); err != nil {
		return err
	}

	notification := &models.AdminNotification{
		Type:                "final_result_sent",
		Title:               "Final Result Sent",
		Message:             fmt.Sprintf("Final result (%s) delivered to %s", result.Grade, application.Student.Username),
		Priority:            "high",
		RelatedResourceType: "applications",
		RelatedResourceID:   &application.ID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).Warn("Failed to create final-result notification row")
	}
	return nil
}

// SendReportReminder nudges a student whose current week has no report.
func (s *NotificationService) SendReportReminder(cycle *models.ReportCycle, weekNumber int) error {
	student := cycle.Application.Student

	data := map[string]interface{}{
		"StudentName": student.Username,
		"WeekNumber":  weekNumber,
		"WeeksTotal":  cycle.WeeksTotal,
		"ReportURL":   fmt.Sprintf("%s/reports/%s", s.config.Frontend.BaseURL, cycle.ID),
	}

	subject := fmt.Sprintf("Weekly Report Reminder - Week %d", weekNumber)
	tmpl := s.getEmailTemplate("report_reminder")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(student.Email, subject, body)
}

// Helper methods

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"application_received": {
			Subject: "New Application",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New Internship Application</h2>
	<p>Hello {{.CompanyName}},</p>
	<p>{{.StudentName}} has applied for "{{.JobTitle}}".</p>
	<a href="{{.ApplicationURL}}">Review Application</a>
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
		"approval_decision": {
			Subject: "Application Decision",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Application Update</h2>
	<p>Hello {{.StudentName}},</p>
	<p>Your application was {{.Decision}} by the {{.DecidedBy}}. Overall status: {{.OverallStatus}}.</p>
	<a href="{{.ApplicationURL}}">View Application</a>
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
		"interview_scheduled": {
			Subject: "Interview Scheduled",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Interview Scheduled</h2>
	<p>Hello {{.StudentName}},</p>
	<p>Your interview for "{{.JobTitle}}" is scheduled ({{.InterviewMode}}) on {{.InterviewAt}}.</p>
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
		"application_rejected": {
			Subject: "Application Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Application Update</h2>
	<p>Hello {{.StudentName}},</p>
	<p>Unfortunately your application for "{{.JobTitle}}" was not successful this time.</p>
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
		"offer_letter": {
			Subject: "Internship Offer",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Congratulations {{.StudentName}}!</h2>
	<p>{{.CompanyName}} has extended you an offer for the position of {{.Position}} ({{.Department}}).</p>
	<a href="{{.OfferURL}}">View and Respond to Offer</a>
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
		"offer_response": {
			Subject: "Offer Response",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Offer Response</h2>
	<p>Hello {{.CompanyName}},</p>
	<p>{{.StudentName}} has {{.Response}} the offer for {{.Position}}.</p>
	{{if .Comments}}<p>Comments: {{.Comments}}</p>{{end}}
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
		"final_result": {
			Subject: "Final Result",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Internship Final Result</h2>
	<p>Hello {{.StudentName}},</p>
	<p>Your final evaluation for the internship at {{.CompanyName}} ("{{.JobTitle}}") is complete.</p>
	<p>Combined score: <strong>{{.CombinedScore}}</strong> &mdash; Grade: <strong>{{.Grade}}</strong></p>
	{{if .ArtifactURL}}<a href="{{.ArtifactURL}}">Download Result Letter</a>{{end}}
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
		"report_reminder": {
			Subject: "Weekly Report Reminder",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Weekly Report Due</h2>
	<p>Hello {{.StudentName}},</p>
	<p>Your report for week {{.WeekNumber}} of {{.WeeksTotal}} has not been submitted yet.</p>
	<a href="{{.ReportURL}}">Submit Report</a>
	<p>Best regards,<br>InternHub Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
