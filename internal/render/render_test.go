package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pureiot/support-service/internal/domain"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestUpdateForm_PreselectsCurrentValues(t *testing.T) {
	r := newRenderer(t)

	page, err := r.UpdateForm(UpdateFormView{
		TicketNumber: "PIOT-ABC123",
		Subject:      "VPN down",
		CompanyName:  "Acme",
		UserName:     "Jane Doe",
		Status:       domain.TicketStatusInProgress,
		Technician:   "Dekel",
	})
	require.NoError(t, err)

	assert.Contains(t, page, `<option value="in-progress" selected>In Progress</option>`)
	assert.Contains(t, page, `<option value="unassigned">Unassigned</option>`)
	assert.Contains(t, page, `<option value="Dekel" selected>Dekel</option>`)
	assert.Contains(t, page, `<option value="">-- Select Technician --</option>`)
	assert.Contains(t, page, `<span class="status in-progress">in progress</span>`)
	assert.Contains(t, page, "PIOT-ABC123")
	for _, name := range domain.Technicians {
		assert.Contains(t, page, `value="`+name+`"`)
	}
}

func TestUpdateForm_BlankTechnicianSelectedWhenUnassigned(t *testing.T) {
	r := newRenderer(t)

	page, err := r.UpdateForm(UpdateFormView{TicketNumber: "PIOT-1", Status: domain.TicketStatusUnassigned})
	require.NoError(t, err)

	assert.Contains(t, page, `<option value="" selected>-- Select Technician --</option>`)
	assert.Contains(t, page, `<option value="unassigned" selected>Unassigned</option>`)
	assert.NotContains(t, page, "Technician:</span>")
}

func TestUpdateForm_EscapesUserText(t *testing.T) {
	r := newRenderer(t)

	page, err := r.UpdateForm(UpdateFormView{
		TicketNumber: "PIOT-1",
		Subject:      `<img src=x onerror="alert(1)">`,
		CompanyName:  "Smith & Sons",
		Status:       domain.TicketStatusAssigned,
	})
	require.NoError(t, err)

	assert.NotContains(t, page, "<img")
	assert.Contains(t, page, "&lt;img")
	assert.Contains(t, page, "Smith &amp; Sons")
}

func TestUpdateDone(t *testing.T) {
	r := newRenderer(t)

	page, err := r.UpdateDone(UpdateDoneView{
		TicketID:     "t-1",
		TicketNumber: "PIOT-1",
		Status:       domain.TicketStatusInProgress,
		Technician:   "Rob",
		NoteAdded:    true,
	})
	require.NoError(t, err)

	assert.Contains(t, page, "IN PROGRESS")
	assert.Contains(t, page, "<strong>Rob</strong>")
	assert.Contains(t, page, `href="/update/t-1"`)
	assert.Contains(t, page, "Note added")
}

func TestTicketNotFound(t *testing.T) {
	r := newRenderer(t)

	page, err := r.TicketNotFound("<missing>")
	require.NoError(t, err)
	assert.Contains(t, page, "Ticket Not Found")
	assert.Contains(t, page, "&lt;missing&gt;")
}

func TestMessage(t *testing.T) {
	r := newRenderer(t)

	page, err := r.Message("Invalid Update", "invalid status")
	require.NoError(t, err)
	assert.Contains(t, page, "<title>Invalid Update</title>")
	assert.Contains(t, page, "<p>invalid status</p>")
	assert.NotContains(t, page, "was not found")
}

func TestTicketEmail_PriorityBadge(t *testing.T) {
	r := newRenderer(t)

	cases := []struct {
		priority domain.TicketPriority
		label    string
		color    string
	}{
		{domain.TicketPriorityLow, "LOW PRIORITY", "#d1e7dd"},
		{domain.TicketPriorityCritical, "CRITICAL PRIORITY", "#dc3545"},
		{"urgent", "MEDIUM PRIORITY", "#fff3cd"},
		{"", "MEDIUM PRIORITY", "#fff3cd"},
	}
	for _, tc := range cases {
		t.Run(string(tc.priority), func(t *testing.T) {
			body, err := r.TicketEmail(TicketEmailView{TicketNumber: "PIOT-1", Priority: tc.priority})
			require.NoError(t, err)
			assert.Contains(t, body, tc.label)
			assert.Contains(t, body, tc.color)
		})
	}
}

func TestMarkdown_Sanitizes(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Markdown("Line one\nLine two\n\n<script>alert(1)</script> [link](javascript:alert(1))")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<br")
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "javascript:")
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "In Progress", StatusLabel(domain.TicketStatusInProgress))
	assert.Equal(t, "Unassigned", StatusLabel(domain.TicketStatusUnassigned))
	assert.Equal(t, "IN PROGRESS", StatusBadge(domain.TicketStatusInProgress))
	assert.Equal(t, "COMPLETED", StatusBadge(domain.TicketStatusCompleted))
}
