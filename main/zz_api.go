package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hnzhou16/template-mailer/internal/mailer"
	"github.com/hnzhou16/template-mailer/internal/metrics"
	"github.com/hnzhou16/template-mailer/internal/storage"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// zz_api.go is named to ensure it's compiled last.
// This allows all handler functions (defined in other files) to be available.

type application struct {
	config  config
	storage storage.Collection
	logger  *zap.SugaredLogger
	mailer  mailer.Client
}

type config struct {
	addr        string
	env         string
	version     string
	corsOrigins []string
	dbConfig    dbConfig
	mailConfig  mailConfig
}

type dbConfig struct {
	uri             string
	dbName          string
	maxPoolSize     uint64
	minPoolSize     uint64
	maxConnIdleTime time.Duration
	maxConnTimeOut  time.Duration
}

type mailConfig struct {
	provider        string
	fromEmail       string
	fromName        string
	fallbackSubject string
	sendgridAPIKey  string
	sendgridSandbox bool
	resendAPIKey    string
	smtpHost        string
	smtpPort        int
	smtpUser        string
	smtpPassword    string
}

func (app *application) mount() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: app.config.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	// timeout request context
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", app.healthCheckHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// operator form
	r.Get("/", app.indexPageHandler)
	r.Post("/send", app.sendFormHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", app.getTemplatesHandler)
			r.Post("/", app.createTemplateHandler)

			r.Route("/{recordID}", func(r chi.Router) {
				r.Use(app.templateCtxMiddleware)

				r.Get("/", app.getTemplateHandler)
				r.Post("/preview", app.previewTemplateHandler)
			})
		})

		// path used by the original browser client
		r.Patch("/template", app.createTemplateHandler)

		r.Post("/mail", app.sendMailHandler)
	})

	return r
}

func (app *application) run(mux *chi.Mux) *http.Server {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	app.logger.Infow("server started", "addr", app.config.addr, "env", app.config.env, "mailer", app.mailer.Provider())

	// Start server in a goroutine to allow graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatalw("server failed", "error", err)
		}
	}()

	return srv
}
