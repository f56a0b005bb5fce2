// Package render turns ticket data into the HTML pages served to staff and
// the HTML body of the support notification email.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pureiot/support-service/internal/domain"
)

//go:embed templates/*.html
var templateFiles embed.FS

const blankTechnicianLabel = "-- Select Technician --"

// Option is one <option> of a select element.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// UpdateFormView feeds the staff status update form.
type UpdateFormView struct {
	TicketNumber string
	Subject      string
	CompanyName  string
	UserName     string
	Status       domain.TicketStatus
	Technician   string
}

// UpdateDoneView feeds the confirmation page shown after an update.
type UpdateDoneView struct {
	TicketID     string
	TicketNumber string
	Status       domain.TicketStatus
	Technician   string
	NoteAdded    bool
}

// TicketEmailView feeds the new-ticket notification email.
type TicketEmailView struct {
	TicketNumber   string
	Priority       domain.TicketPriority
	ContactDisplay string
	UpdateURL      string
	Subject        string
	Description    string
	FirstName      string
	Surname        string
	CompanyName    string
	Phone          string
	Email          string
	AnyDeskID      string
}

type priorityColor struct {
	background template.CSS
	text       template.CSS
}

var priorityColors = map[domain.TicketPriority]priorityColor{
	domain.TicketPriorityLow:      {"#d1e7dd", "#0f5132"},
	domain.TicketPriorityMedium:   {"#fff3cd", "#856404"},
	domain.TicketPriorityHigh:     {"#f8d7da", "#842029"},
	domain.TicketPriorityCritical: {"#dc3545", "#ffffff"},
}

// Renderer holds the parsed templates and the markdown pipeline.
type Renderer struct {
	pages    map[string]*template.Template
	email    *template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}

	for _, name := range []string{"update_form.html", "update_done.html", "message.html"} {
		tmpl, err := template.New(name).ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	email, err := template.New("ticket_email.html").ParseFS(templateFiles, "templates/ticket_email.html")
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	r.email = email
	return r, nil
}

// UpdateForm renders the status update form with current values pre-selected.
func (r *Renderer) UpdateForm(view UpdateFormView) (string, error) {
	statuses := make([]Option, 0, len(domain.TicketStatuses))
	for _, s := range domain.TicketStatuses {
		statuses = append(statuses, Option{Value: string(s), Label: StatusLabel(s), Selected: s == view.Status})
	}
	technicians := []Option{{Value: "", Label: blankTechnicianLabel, Selected: view.Technician == ""}}
	for _, name := range domain.Technicians {
		technicians = append(technicians, Option{Value: name, Label: name, Selected: name == view.Technician})
	}

	return r.page("update_form.html", struct {
		UpdateFormView
		StatusText  string
		Statuses    []Option
		Technicians []Option
	}{
		UpdateFormView: view,
		StatusText:     strings.Replace(string(view.Status), "-", " ", 1),
		Statuses:       statuses,
		Technicians:    technicians,
	})
}

// UpdateDone renders the confirmation page.
func (r *Renderer) UpdateDone(view UpdateDoneView) (string, error) {
	return r.page("update_done.html", struct {
		UpdateDoneView
		Badge string
	}{view, StatusBadge(view.Status)})
}

// TicketNotFound renders the 404 page naming the missing ticket.
func (r *Renderer) TicketNotFound(ticketID string) (string, error) {
	return r.page("message.html", map[string]string{"Title": "Ticket Not Found", "TicketID": ticketID})
}

// Message renders a generic titled message page.
func (r *Renderer) Message(title, message string) (string, error) {
	return r.page("message.html", map[string]string{"Title": title, "Message": message})
}

// TicketEmail renders the support notification body.
func (r *Renderer) TicketEmail(view TicketEmailView) (string, error) {
	priority := view.Priority
	colors, ok := priorityColors[priority]
	if !ok {
		priority = domain.TicketPriorityMedium
		colors = priorityColors[priority]
	}
	description, err := r.Markdown(view.Description)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = r.email.Execute(&buf, struct {
		TicketEmailView
		PriorityLabel      string
		PriorityBackground template.CSS
		PriorityText       template.CSS
		DescriptionHTML    template.HTML
	}{
		TicketEmailView:    view,
		PriorityLabel:      cases.Upper(language.English).String(string(priority)),
		PriorityBackground: colors.background,
		PriorityText:       colors.text,
		DescriptionHTML:    description,
	})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

// Markdown converts user text to sanitized HTML.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return template.HTML(r.policy.Sanitize(buf.String())), nil //nolint:gosec // sanitized above
}

func (r *Renderer) page(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.pages[name].ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// StatusLabel is the human label of a status, e.g. "In Progress".
func StatusLabel(s domain.TicketStatus) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "-", " "))
}

// StatusBadge is the upper-case badge text of a status, e.g. "IN PROGRESS".
func StatusBadge(s domain.TicketStatus) string {
	return cases.Upper(language.English).String(strings.Replace(string(s), "-", " ", 1))
}
