package main

import (
	"net/http"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal server error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func (app *application) badRequestError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed request body")
}

func (app *application) notFoundError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.writeJSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
}

func (app *application) badGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("mail provider error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.writeJSONError(w, http.StatusBadGateway, "MAIL_PROVIDER_ERROR", "mail provider failed to accept the message")
}

func (app *application) validationError(w http.ResponseWriter, r *http.Request, status int, errs fieldErrors) {
	app.logger.Infow("validation error", "method", r.Method, "path", r.URL.Path, "fields", errs)
	app.writeFieldErrors(w, status, errs)
}
