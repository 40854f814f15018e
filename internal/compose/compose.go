// Package compose renders notification bodies for residents and the owner.
package compose

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"binduty-service/internal/models"
)

const (
	// ReminderSubject heads reminder emails. Reminder text messages carry no subject line.
	ReminderSubject = "Bin Duty Reminder"
	// OwnerIssueSubject heads the owner alert email for a new issue.
	OwnerIssueSubject = "New Maintenance Issue Reported"

	defaultOwnerName   = "Admin"
	defaultReportLink  = "#"
	defaultIssuesBase  = "http://localhost:9002"
	issueWhatsAppLimit = 80
)

// FirstName returns name up to the first whitespace.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func personalize(tmpl string, r models.Resident) string {
	return strings.NewReplacer(
		"{first_name}", FirstName(r.Name),
		"{flat_number}", r.FlatNumber,
	).Replace(tmpl)
}

func ownerName(s models.Settings) string {
	if s.OwnerName == "" {
		return defaultOwnerName
	}
	return s.OwnerName
}

// Text renders the plain-text variant used for WhatsApp and SMS.
// A non-empty subject marks the message as an announcement.
func Text(tmpl string, r models.Resident, s models.Settings, subject string) string {
	body := personalize(tmpl, r)
	footer := fmt.Sprintf("\n\nContact %s at %s to report an issue.", ownerName(s), s.OwnerContactNumber)
	if subject != "" {
		return "Announcement: " + subject + "\n" + body + footer
	}
	return body + footer
}

type residentPage struct {
	Subject     string
	FirstName   string
	Body        template.HTML
	ReportLink  string
	OwnerName   string
	OwnerNumber string
}

// HTML renders the email variant. Interpolated values are escaped; newlines
// in the template become <br>.
func HTML(tmpl string, r models.Resident, s models.Settings, subject string) (string, error) {
	body := template.HTMLEscapeString(personalize(tmpl, r))
	link := s.ReportIssueLink
	if link == "" {
		link = defaultReportLink
	}
	page := residentPage{
		Subject:     subject,
		FirstName:   FirstName(r.Name),
		Body:        template.HTML(strings.ReplaceAll(body, "\n", "<br>")),
		ReportLink:  link,
		OwnerName:   ownerName(s),
		OwnerNumber: s.OwnerContactNumber,
	}
	return render(residentTemplate, page)
}

// IssuesLink is the admin issues page derived from the public report link.
func IssuesLink(s models.Settings) string {
	base := s.ReportIssueLink
	if base == "" {
		base = defaultIssuesBase
	}
	if i := strings.Index(base, "/report"); i >= 0 {
		base = base[:i]
	}
	return base + "/issues"
}

// OwnerIssueHTML renders the owner alert email for a newly reported issue.
func OwnerIssueHTML(issue models.Issue, s models.Settings) (string, error) {
	return render(ownerIssueTemplate, struct {
		Issue      models.Issue
		IssuesLink string
	}{issue, IssuesLink(s)})
}

// IssueWhatsApp is the short owner alert, with the description cut to 80 characters.
func IssueWhatsApp(issue models.Issue, s models.Settings) string {
	return fmt.Sprintf("New Issue Reported by %s, Flat %s: %s... See it here: %s",
		issue.ReportedBy, issue.FlatNumber, Truncate(issue.Description, issueWhatsAppLimit), IssuesLink(s))
}

// IssueSMS is the owner alert carrying the full description.
func IssueSMS(issue models.Issue) string {
	return fmt.Sprintf("New Issue Reported by %s, Flat %s. Description: %s",
		issue.ReportedBy, issue.FlatNumber, issue.Description)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Summary is the history content recorded for email sends.
func Summary(subject, body string) string {
	return "Subject: " + subject + "\nBody: " + body
}

// Reminder builds the full reminder message for r.
func Reminder(tmpl string, r models.Resident, s models.Settings) (models.Message, error) {
	html, err := HTML(tmpl, r, s, ReminderSubject)
	if err != nil {
		return models.Message{}, err
	}
	return models.Message{
		Subject: ReminderSubject,
		Text:    Text(tmpl, r, s, ""),
		HTML:    html,
		Summary: Summary(ReminderSubject, tmpl),
	}, nil
}

// Announcement builds the announcement message for r.
func Announcement(subject, tmpl string, r models.Resident, s models.Settings) (models.Message, error) {
	html, err := HTML(tmpl, r, s, subject)
	if err != nil {
		return models.Message{}, err
	}
	return models.Message{
		Subject: subject,
		Text:    Text(tmpl, r, s, subject),
		HTML:    html,
		Summary: Summary(subject, tmpl),
	}, nil
}

// OwnerIssue builds the owner alert for a newly reported issue.
func OwnerIssue(issue models.Issue, s models.Settings) (models.Message, error) {
	html, err := OwnerIssueHTML(issue, s)
	if err != nil {
		return models.Message{}, err
	}
	return models.Message{
		Subject: OwnerIssueSubject,
		Text:    IssueWhatsApp(issue, s),
		SMS:     IssueSMS(issue),
		HTML:    html,
		Summary: Summary(OwnerIssueSubject, issue.Description),
	}, nil
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
