// Package metrics defines Prometheus metrics for template storage and mail
// dispatch.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TemplatesStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "template_mailer_templates_stored_total",
		Help: "Total number of templates stored",
	})
	TemplateValidationFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "template_mailer_template_validation_failed_total",
		Help: "Total number of rejected template store requests, by field",
	}, []string{"field"})
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "template_mailer_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"provider"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "template_mailer_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"provider"})
	MailRecipients = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "template_mailer_mail_recipients_total",
		Help: "Total number of recipients addressed by successful sends",
	}, []string{"provider"})
)

func init() {
	prometheus.MustRegister(TemplatesStored)
	prometheus.MustRegister(TemplateValidationFailed)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailRecipients)
}

// Handler returns an http.Handler exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
