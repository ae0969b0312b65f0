package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hnzhou16/template-mailer/internal/db"
	"github.com/hnzhou16/template-mailer/internal/env"
	"github.com/hnzhou16/template-mailer/internal/mailer"
	"github.com/hnzhou16/template-mailer/internal/storage"
	"github.com/lpernett/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using process environment")
	}

	cfg := config{
		addr:        env.GetString("ADDR", ":8080"),
		env:         env.GetString("ENV", "development"),
		version:     env.GetString("VERSION", "1.0.0"),
		corsOrigins: env.GetList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		dbConfig: dbConfig{
			uri:             env.GetString("MONGODB_URI", ""),
			dbName:          env.GetString("MONGODB_NAME", ""),
			maxPoolSize:     uint64(env.GetInt("MONGODB_MAX_POOL_SIZE", 30)),
			minPoolSize:     uint64(env.GetInt("DB_MIN_POOL_SIZE", 10)),
			maxConnIdleTime: time.Duration(env.GetInt("DB_MAX_CONN_IDLE_TIME", 10)) * time.Second,
			maxConnTimeOut:  time.Duration(env.GetInt("DB_CONN_TIME_OUT", 10)) * time.Second,
		},
		mailConfig: mailConfig{
			provider:        env.GetString("MAILER_PROVIDER", mailer.ProviderLog),
			fromEmail:       env.GetString("MAILER_FROM_ADDR", ""),
			fromName:        env.GetString("MAILER_FROM_NAME", mailer.FromName),
			fallbackSubject: env.GetString("MAILER_FALLBACK_SUBJECT", "Test email"),
			sendgridAPIKey:  env.GetString("SENDGRID_API_KEY", ""),
			sendgridSandbox: env.GetBool("SENDGRID_SANDBOX", false),
			resendAPIKey:    env.GetString("RESEND_API_KEY", ""),
			smtpHost:        env.GetString("SMTP_HOST", "localhost"),
			smtpPort:        env.GetInt("SMTP_PORT", 587),
			smtpUser:        env.GetString("SMTP_USER", ""),
			smtpPassword:    env.GetString("SMTP_PASSWORD", ""),
		},
	}

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	ctx := context.Background()

	dbConn, err := db.Connect(ctx, db.Config{
		URI:             cfg.dbConfig.uri,
		DBName:          cfg.dbConfig.dbName,
		MaxPoolSize:     cfg.dbConfig.maxPoolSize,
		MinPoolSize:     cfg.dbConfig.minPoolSize,
		MaxConnIdleTime: cfg.dbConfig.maxConnIdleTime,
		ConnTimeout:     cfg.dbConfig.maxConnTimeOut,
	})
	if err != nil {
		logger.Fatalw("error connecting to database", "error", err)
	}
	defer func() {
		if err := dbConn.Disconnect(context.Background()); err != nil {
			logger.Warnw("error disconnecting database", "error", err)
		}
	}()
	logger.Infow("connected to MongoDB", "db", cfg.dbConfig.dbName)

	s, err := storage.NewMongoDBCollections(ctx, dbConn)
	if err != nil {
		logger.Fatalw("error preparing collections", "error", err)
	}

	mailClient, err := mailer.New(mailer.Config{
		Provider:        cfg.mailConfig.provider,
		FromEmail:       cfg.mailConfig.fromEmail,
		FromName:        cfg.mailConfig.fromName,
		SendgridAPIKey:  cfg.mailConfig.sendgridAPIKey,
		SendgridSandbox: cfg.mailConfig.sendgridSandbox,
		ResendAPIKey:    cfg.mailConfig.resendAPIKey,
		SMTPHost:        cfg.mailConfig.smtpHost,
		SMTPPort:        cfg.mailConfig.smtpPort,
		SMTPUser:        cfg.mailConfig.smtpUser,
		SMTPPassword:    cfg.mailConfig.smtpPassword,
	}, logger)
	if err != nil {
		logger.Fatalw("error initializing mailer", "provider", cfg.mailConfig.provider, "error", err)
	}

	app := &application{
		config:  cfg,
		storage: s,
		logger:  logger,
		mailer:  mailClient,
	}

	mux := app.mount()
	server := app.run(mux)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	<-shutdown
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("error during server shutdown", "error", err)
	}

	logger.Info("server gracefully stopped")
}
