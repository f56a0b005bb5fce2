package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pureiot/support-service/pkg/util/errorutil"
)

func validRequest() SubmitTicketRequest {
	return SubmitTicketRequest{
		Ticket: &TicketPayload{Subject: "Printer offline", Description: "Nothing prints", Priority: "high", ContactPreference: "asap"},
		User:   &UserPayload{FirstName: "Jane", Surname: "Doe", Email: "jane@acme.co.za", CompanyName: "Acme"},
	}
}

func TestValidate_AcceptsValidRequest(t *testing.T) {
	req := validRequest()
	assert.NoError(t, Validate(&req))

	req.Ticket.Priority = ""
	req.Ticket.ContactPreference = ""
	req.User.Email = ""
	assert.NoError(t, Validate(&req))
}

func TestValidate_ReportsFieldsByJSONName(t *testing.T) {
	req := validRequest()
	req.Ticket.Subject = ""
	req.Ticket.Priority = "urgent"
	req.User.Email = "not-an-email"

	err := Validate(&req)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	fields, ok := domainErr.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "subject is required", fields["subject"])
	assert.Equal(t, "priority must be one of: low medium high critical", fields["priority"])
	assert.Equal(t, "email must be a valid email address", fields["email"])
}
