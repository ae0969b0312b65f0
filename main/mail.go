package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hnzhou16/template-mailer/internal/mailer"
	"github.com/hnzhou16/template-mailer/internal/metrics"
	"github.com/hnzhou16/template-mailer/internal/render"
	"github.com/hnzhou16/template-mailer/internal/storage"
)

var (
	errSendFailed     = errors.New("failed to send email")
	errInvalidMessage = errors.New("rendered message is incomplete")
)

type SendMailPayload struct {
	Email      []string          `json:"email" validate:"required,min=1,dive,valid_email"`
	TemplateID string            `json:"templateId" validate:"required"`
	Data       map[string]string `json:"data"`
	Subject    string            `json:"subject"`
}

var sendMailMessages = map[string]string{
	"email":      "Empty or invalid 'to' field. Provide an email address to send the test email.",
	"templateId": "Select a template to send.",
}

const templateNotFoundMessage = "Template not found."

// messageFieldErrors maps incomplete rendered messages onto the request
// field the operator has to fix.
func messageFieldErrors(err error) fieldErrors {
	switch {
	case errors.Is(err, mailer.ErrNoContent):
		return fieldErrors{"data": "The rendered email is empty. Fill in the template variables."}
	case errors.Is(err, mailer.ErrNoSubject):
		return fieldErrors{"subject": "Provide a subject or set a default subject on the template."}
	default:
		return fieldErrors{"email": sendMailMessages["email"]}
	}
}

type sendResult struct {
	MessageID  string   `json:"messageId"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
}

// normalizeRecipients trims addresses and drops empty entries.
func normalizeRecipients(addrs []string) []string {
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// splitRecipients parses the form's "a@x.com; b@y.com" notation.
func splitRecipients(to string) []string {
	return normalizeRecipients(strings.Split(to, ";"))
}

// resolveSubject picks the requested subject, then the template default,
// then the configured fallback.
func (app *application) resolveSubject(requested string, tmpl *storage.Template) string {
	if s := strings.TrimSpace(requested); s != "" {
		return s
	}
	if tmpl != nil && strings.TrimSpace(tmpl.DefaultSubject) != "" {
		return tmpl.DefaultSubject
	}
	return app.config.mailConfig.fallbackSubject
}

// sendTemplateMail loads, renders and dispatches. The payload must already
// be validated.
func (app *application) sendTemplateMail(ctx context.Context, payload SendMailPayload) (*sendResult, error) {
	tmpl, err := app.storage.Template.GetByID(ctx, payload.TemplateID)
	if err != nil {
		return nil, err
	}

	msg := mailer.NewMessage(
		payload.Email,
		app.resolveSubject(payload.Subject, tmpl),
		render.Render(tmpl.HTML, payload.Data),
	)

	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidMessage, err)
	}

	provider := app.mailer.Provider()
	if err := app.mailer.Send(ctx, msg); err != nil {
		metrics.MailSendFailure.WithLabelValues(provider).Inc()
		return nil, fmt.Errorf("%w: message %s: %w", errSendFailed, msg.ID, err)
	}

	metrics.MailSendSuccess.WithLabelValues(provider).Inc()
	metrics.MailRecipients.WithLabelValues(provider).Add(float64(len(msg.To)))
	app.logger.Infow("email sent",
		"message_id", msg.ID,
		"template_id", tmpl.RecordID,
		"recipients", len(msg.To),
		"provider", provider,
	)

	return &sendResult{
		MessageID:  msg.ID,
		Recipients: msg.To,
		Subject:    msg.Subject,
	}, nil
}

func (app *application) sendMailHandler(w http.ResponseWriter, r *http.Request) {
	var payload SendMailPayload

	if err := ReadJSON(w, r, &payload); err != nil {
		app.badRequestError(w, r, err)
		return
	}

	payload.Email = normalizeRecipients(payload.Email)

	if err := Validate.Struct(payload); err != nil {
		errs, ok := validationFieldErrors(err, sendMailMessages)
		if !ok {
			app.badRequestError(w, r, err)
			return
		}
		app.validationError(w, r, http.StatusBadRequest, errs)
		return
	}

	result, err := app.sendTemplateMail(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTemplateNotFound):
			app.validationError(w, r, http.StatusNotFound, fieldErrors{"templateId": templateNotFoundMessage})
		case errors.Is(err, errInvalidMessage):
			app.validationError(w, r, http.StatusBadRequest, messageFieldErrors(err))
		case errors.Is(err, errSendFailed):
			app.badGatewayError(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.writeJSON(w, http.StatusOK, result)
}
