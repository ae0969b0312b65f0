package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/hnzhou16/template-mailer/internal/metrics"
	"github.com/hnzhou16/template-mailer/internal/render"
	"github.com/hnzhou16/template-mailer/internal/storage"
)

type CreateTemplatePayload struct {
	RecordID        string `json:"recordId" validate:"required"`
	TemplateName    string `json:"templateName" validate:"required,not_blank"`
	TemplateDesc    string `json:"templateDesc"`
	TemplateSubject string `json:"templateSubject"`
	TemplateHTML    string `json:"templateHtml" validate:"required,not_blank"`
	IsDefault       bool   `json:"isDefault"`
}

type PreviewTemplatePayload struct {
	Data    map[string]string `json:"data"`
	Subject string            `json:"subject"`
}

var createTemplateMessages = map[string]string{
	"templateName": "Template name is a required field.",
	"templateHtml": "Template content is a required field.",
	"recordId":     "Template is missing record ID.",
}

// storeFieldToPayload maps storage validation keys onto request fields.
var storeFieldToPayload = map[string]string{
	storage.FieldName:     "templateName",
	storage.FieldHTML:     "templateHtml",
	storage.FieldRecordID: "recordId",
}

func (app *application) createTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateTemplatePayload
	ctx := r.Context()

	if err := ReadJSON(w, r, &payload); err != nil {
		app.badRequestError(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		errs, ok := validationFieldErrors(err, createTemplateMessages)
		if !ok {
			app.badRequestError(w, r, err)
			return
		}
		app.templateValidationError(w, r, errs)
		return
	}

	tmpl := &storage.Template{
		RecordID:       payload.RecordID,
		Name:           payload.TemplateName,
		HTML:           payload.TemplateHTML,
		Description:    payload.TemplateDesc,
		DefaultSubject: payload.TemplateSubject,
		IsDefault:      payload.IsDefault,
	}

	if err := app.storage.Template.Store(ctx, tmpl); err != nil {
		var verr *storage.ValidationError
		if errors.As(err, &verr) {
			errs := fieldErrors{}
			for field := range verr.Fields {
				key := storeFieldToPayload[field]
				errs[key] = createTemplateMessages[key]
			}
			app.templateValidationError(w, r, errs)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	metrics.TemplatesStored.Inc()
	app.logger.Infow("template stored", "record_id", tmpl.RecordID, "name", tmpl.Name, "variables", tmpl.Variables)

	app.writeJSON(w, http.StatusCreated, map[string]*storage.Template{"template": tmpl})
}

func (app *application) templateValidationError(w http.ResponseWriter, r *http.Request, errs fieldErrors) {
	for field := range errs {
		metrics.TemplateValidationFailed.WithLabelValues(field).Inc()
	}
	app.validationError(w, r, http.StatusBadRequest, errs)
}

func (app *application) getTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	templates, err := app.storage.Template.GetAll(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string][]storage.Template{"templates": templates})
}

func (app *application) getTemplateHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]*storage.Template{"template": getTemplateFromCtx(r)})
}

// previewTemplateHandler renders the template with the given data without
// sending anything.
func (app *application) previewTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var payload PreviewTemplatePayload
	tmpl := getTemplateFromCtx(r)

	// an empty body previews with no data
	if err := ReadJSON(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
		app.badRequestError(w, r, err)
		return
	}

	missing := render.Missing(tmpl.HTML, payload.Data)
	if missing == nil {
		missing = []string{}
	}

	app.writeJSON(w, http.StatusOK, map[string]any{
		"html":    render.Render(tmpl.HTML, payload.Data),
		"subject": app.resolveSubject(payload.Subject, tmpl),
		"missing": missing,
	})
}
