// internal/services/document_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/internhub/internhub-backend/internal/models"
)

// Document is a rendered, stored artifact.
type Document struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`
}

// DocumentService renders offer letters and final-result letters and hands
// them to storage. It is the render collaborator of the final-result send.
type DocumentService struct {
	storage *StorageService
}

func NewDocumentService(storage *StorageService) *DocumentService {
	return &DocumentService{storage: storage}
}

// RenderOfferLetter produces the stored offer-letter artifact for a hire.
func (s *DocumentService) RenderOfferLetter(application *models.Application, offer *models.OfferLetter) (*Document, error) {
	data := map[string]interface{}{
		"StudentName": application.Student.Username,
		"CompanyName": application.Company.Username,
		"Position":    offer.Position,
		"Department":  offer.Department,
		"IssuedAt":    time.Now().Format("2 January 2006"),
	}
	if offer.StartDate != nil {
		data["StartDate"] = offer.StartDate.Format("2 January 2006")
	}
	if offer.EndDate != nil {
		data["EndDate"] = offer.EndDate.Format("2 January 2006")
	}

	content, err := renderDocument(offerLetterTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render offer letter: %w", err)
	}

	return s.store(content, "offer_letter.html", "offer_letters")
}

// RenderFinalResult produces the stored final-result artifact.
func (s *DocumentService) RenderFinalResult(application *models.Application, result *FinalResult) (*Document, error) {
	data := map[string]interface{}{
		"StudentName":       application.Student.Username,
		"CompanyName":       application.Company.Username,
		"JobTitle":          application.Job.Title,
		"SupervisorPercent": fmt.Sprintf("%.2f", result.SupervisorPercent),
		"CompanyPercent":    fmt.Sprintf("%.2f", result.CompanyPercent),
		"SupervisorWeight":  fmt.Sprintf("%.0f%%", result.SupervisorWeight*100),
		"CompanyWeight":     fmt.Sprintf("%.0f%%", result.CompanyWeight*100),
		"CombinedScore":     fmt.Sprintf("%.2f", result.CombinedScore),
		"Grade":             result.Grade,
		"IssuedAt":          time.Now().Format("2 January 2006"),
	}

	content, err := renderDocument(finalResultTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render final result: %w", err)
	}

	return s.store(content, "final_result.html", "final_results")
}

func (s *DocumentService) store(content []byte, name, category string) (*Document, error) {
	options := s.storage.GetDefaultUploadOptions(category)
	result, err := s.storage.UploadBytes(content, name, "text/html; charset=utf-8", options)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	return &Document{
		URL:      result.URL,
		Key:      result.Key,
		MimeType: result.MimeType,
	}, nil
}

func renderDocument(templateStr string, data interface{}) ([]byte, error) {
	tmpl, err := template.New("document").Parse(templateStr)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const offerLetterTemplate = `
<!DOCTYPE html>
<html>
<body>
	<h1>Internship Offer Letter</h1>
	<p>{{.IssuedAt}}</p>
	<p>Dear {{.StudentName}},</p>
	<p>{{.CompanyName}} is pleased to offer you the position of <strong>{{.Position}}</strong>
	{{if .Department}}in the {{.Department}} department{{end}}.</p>
	{{if .StartDate}}<p>The internship runs from {{.StartDate}} to {{.EndDate}}.</p>{{end}}
	<p>Please respond to this offer through the InternHub platform.</p>
	<p>Sincerely,<br>{{.CompanyName}}</p>
</body>
</html>`

const finalResultTemplate = `
<!DOCTYPE html>
<html>
<body>
	<h1>Internship Final Result</h1>
	<p>{{.IssuedAt}}</p>
	<p>Student: <strong>{{.StudentName}}</strong></p>
	<p>Placement: {{.JobTitle}} at {{.CompanyName}}</p>
	<table border="1" cellpadding="6">
		<tr><th>Component</th><th>Score</th><th>Weight</th></tr>
		<tr><td>Supervisor evaluation</td><td>{{.SupervisorPercent}}%</td><td>{{.SupervisorWeight}}</td></tr>
		<tr><td>Company evaluation</td><td>{{.CompanyPercent}}%</td><td>{{.CompanyWeight}}</td></tr>
	</table>
	<p>Combined score: <strong>{{.CombinedScore}}</strong></p>
	<p>Final grade: <strong>{{.Grade}}</strong></p>
</body>
</html>`
