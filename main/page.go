package main

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/hnzhou16/template-mailer/internal/storage"
)

// FS embed files in 'templates' folder
//
//go:embed "templates"
var FS embed.FS

var pageTemplate = template.Must(template.ParseFS(FS, "templates/index.html"))

type pageData struct {
	FromAddr  string
	Templates []storage.Template
	Selected  *storage.Template
	To        string
	Subject   string
	Data      map[string]string
	Errors    fieldErrors
	Notice    string
}

// selectTemplate selects recordID and reports whether it exists. An unknown
// id still selects the first template so the page has something to show.
func (d *pageData) selectTemplate(recordID string) bool {
	for i := range d.Templates {
		if d.Templates[i].RecordID == recordID {
			d.Selected = &d.Templates[i]
			return true
		}
	}
	if len(d.Templates) > 0 {
		d.Selected = &d.Templates[0]
	}
	return false
}

func (app *application) renderPage(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		app.logger.Warnw("failed to write page", "error", err)
	}
}

func (app *application) newPageData(r *http.Request, recordID string) (*pageData, bool, error) {
	templates, err := app.storage.Template.GetAll(r.Context())
	if err != nil {
		return nil, false, err
	}

	data := &pageData{
		FromAddr:  app.config.mailConfig.fromEmail,
		Templates: templates,
		Data:      map[string]string{},
		Errors:    fieldErrors{},
	}
	found := data.selectTemplate(recordID)

	return data, found, nil
}

func (app *application) indexPageHandler(w http.ResponseWriter, r *http.Request) {
	data, _, err := app.newPageData(r, r.URL.Query().Get("template"))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.renderPage(w, r, http.StatusOK, data)
}

// sendFormHandler handles the operator form. Only non-empty variable
// fields are sent, so unset variables render empty.
func (app *application) sendFormHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestError(w, r, err)
		return
	}

	templateID := r.PostForm.Get("templateId")
	data, found, err := app.newPageData(r, templateID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	data.To = r.PostForm.Get("to")
	data.Subject = r.PostForm.Get("subject")

	// Never fall back to another template for a send.
	if templateID != "" && !found {
		app.logger.Infow("validation error", "method", r.Method, "path", r.URL.Path, "template_id", templateID)
		data.Errors["templateId"] = templateNotFoundMessage
		app.renderPage(w, r, http.StatusNotFound, data)
		return
	}

	payload := SendMailPayload{
		Email:   splitRecipients(data.To),
		Subject: data.Subject,
		Data:    map[string]string{},
	}
	if found {
		payload.TemplateID = data.Selected.RecordID
		for _, variable := range data.Selected.Variables {
			if value := r.PostForm.Get("data[" + variable + "]"); value != "" {
				payload.Data[variable] = value
				data.Data[variable] = value
			}
		}
	}

	if err := Validate.Struct(payload); err != nil {
		errs, ok := validationFieldErrors(err, sendMailMessages)
		if !ok {
			app.badRequestError(w, r, err)
			return
		}
		data.Errors = errs
		app.renderPage(w, r, http.StatusBadRequest, data)
		return
	}

	result, err := app.sendTemplateMail(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTemplateNotFound):
			data.Errors["templateId"] = templateNotFoundMessage
			app.renderPage(w, r, http.StatusNotFound, data)
		case errors.Is(err, errInvalidMessage):
			data.Errors = messageFieldErrors(err)
			app.renderPage(w, r, http.StatusBadRequest, data)
		case errors.Is(err, errSendFailed):
			app.logger.Errorw("mail provider error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
			data.Errors["send"] = "The mail provider did not accept the message."
			app.renderPage(w, r, http.StatusBadGateway, data)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	data.Notice = "Email " + result.MessageID + " sent."
	app.renderPage(w, r, http.StatusOK, data)
}
