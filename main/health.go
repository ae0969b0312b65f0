package main

import "net/http"

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": app.config.version,
		"mailer":  app.mailer.Provider(),
	})
}
