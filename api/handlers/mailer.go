package handlers

import (
	"fmt"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/societyhq/society-api/models"
	templates "github.com/societyhq/society-api/templates/html"
)

// Mailer sends transactional emails. Handlers depend on the interface so
// tests can swap out sendgrid.
type Mailer interface {
	SendVisitorConfirmation(member *models.Member, visitor *models.VisitorRequest)
}

// SendgridMailer is the production Mailer
type SendgridMailer struct{}

// SendVisitorConfirmation emails the member their pre-approval summary with
// the OTP and expiry. Best effort: a failed send never fails the request.
func (SendgridMailer) SendVisitorConfirmation(member *models.Member, visitor *models.VisitorRequest) {
	if member.Email == "" {
		return
	}

	subject := "Visitor Pre-Approval Created"
	body := fmt.Sprintf(`Hi %s,

Your pre-approval for %s is ready.

Gate code (OTP): %s
Valid until: %s
Gates: %v

Share the code with your visitor. The guard will ask for it at the gate.`,
		member.Name,
		visitor.DisplayName(),
		visitor.OTPCode,
		visitor.Expiry.Time().Format(time.RFC1123),
		visitor.GateIDs,
	)

	from := mail.NewEmail("SocietyHQ", "no-reply@societyhq.app")
	to := mail.NewEmail(member.Name, member.Email)
	message := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		zap.S().Warnw("failed to send visitor confirmation email", "error", err, "memberUid", member.UID)
		return
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
}
