package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hnzhou16/template-mailer/internal/mailer"
	"github.com/hnzhou16/template-mailer/internal/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) Store(ctx context.Context, t *storage.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateStore) GetAll(ctx context.Context) ([]storage.Template, error) {
	args := m.Called(ctx)
	templates, _ := args.Get(0).([]storage.Template)
	return templates, args.Error(1)
}

func (m *MockTemplateStore) GetByID(ctx context.Context, recordID string) (*storage.Template, error) {
	args := m.Called(ctx, recordID)
	tmpl, _ := args.Get(0).(*storage.Template)
	return tmpl, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMailer) Provider() string {
	return "mock"
}

func newTestApplication(t *testing.T) (*application, *MockTemplateStore, *MockMailer) {
	t.Helper()

	store := &MockTemplateStore{}
	mail := &MockMailer{}

	app := &application{
		config: config{
			env:         "test",
			version:     "0.0.0",
			corsOrigins: []string{"http://localhost:3000"},
			mailConfig: mailConfig{
				fromEmail:       "tester@example.com",
				fallbackSubject: "Test email",
			},
		},
		storage: storage.Collection{Template: store},
		logger:  zap.NewNop().Sugar(),
		mailer:  mail,
	}

	return app, store, mail
}

func executeRequest(app *application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.mount().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func welcomeTemplate() *storage.Template {
	return &storage.Template{
		RecordID:       "tpl-welcome",
		Name:           "Welcome",
		HTML:           "<p>Hello {{name}}</p><p>{{ it.body }}</p>",
		DefaultSubject: "Welcome aboard",
		IsDefault:      true,
		Variables:      []string{"name", "body"},
	}
}
