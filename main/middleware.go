package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hnzhou16/template-mailer/internal/storage"
)

type ctxKey string

const (
	templateCtx ctxKey = "template"
)

// templateCtxMiddleware - load the template named in the URL and add it to ctx
func (app *application) templateCtxMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "recordID")
		ctx := r.Context()

		tmpl, err := app.storage.Template.GetByID(ctx, recordID)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrTemplateNotFound):
				app.notFoundError(w, r, err)
			default:
				app.internalServerError(w, r, err)
			}
			return
		}

		ctx = context.WithValue(ctx, templateCtx, tmpl)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getTemplateFromCtx(r *http.Request) *storage.Template {
	tmpl, _ := r.Context().Value(templateCtx).(*storage.Template)
	return tmpl
}
