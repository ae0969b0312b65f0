package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hnzhou16/template-mailer/internal/render"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidTemplate  = errors.New("invalid template")
)

// Field keys reported by ValidationError.
const (
	FieldRecordID = "recordId"
	FieldName     = "name"
	FieldHTML     = "html"
)

type Template struct {
	RecordID       string    `json:"recordId" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	HTML           string    `json:"html" bson:"html"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty"`
	DefaultSubject string    `json:"defaultSubject,omitempty" bson:"default_subject,omitempty"`
	IsDefault      bool      `json:"isDefault" bson:"is_default"`
	Variables      []string  `json:"variables" bson:"variables"`
	CreatedAt      time.Time `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// ValidationError is a field-keyed set of problems with a Template.
// errors.Is(err, ErrInvalidTemplate) reports true for it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidTemplate, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// Validate checks the fields a template cannot be stored without.
func (t *Template) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(t.Name) == "" {
		fields[FieldName] = "name is required"
	}
	if strings.TrimSpace(t.HTML) == "" {
		fields[FieldHTML] = "html is required"
	}
	if t.RecordID == "" {
		fields[FieldRecordID] = "record id is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type TemplateStorage struct {
	collection *mongo.Collection
}

func (t *TemplateStorage) CreateIndexes(ctx context.Context) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "is_default", Value: -1}, {Key: "name", Value: 1}},
	}

	if _, err := t.collection.Indexes().CreateOne(ctxTimeout, indexModel); err != nil {
		return fmt.Errorf("failed to create index on template collection: %w", err)
	}
	return nil
}

// Store upserts the template by record id. Variables are derived from the
// HTML and timestamps are assigned here. Marking a template as default
// clears the flag on every other template.
func (t *TemplateStorage) Store(ctx context.Context, tmpl *Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	tmpl.Variables = render.ExtractVariables(tmpl.HTML)
	tmpl.UpdatedAt = now

	client := t.collection.Database().Client()

	txnFunc := func(sessCtx mongo.SessionContext) (interface{}, error) {
		ctxTimeout, cancel := context.WithTimeout(sessCtx, QueryTimeout)
		defer cancel()

		if tmpl.IsDefault {
			_, err := t.collection.UpdateMany(
				ctxTimeout,
				bson.M{"_id": bson.M{"$ne": tmpl.RecordID}, "is_default": true},
				bson.M{"$set": bson.M{"is_default": false, "updated_at": now}},
			)
			if err != nil {
				return nil, fmt.Errorf("failed to clear default template: %w", err)
			}
		}

		update := bson.M{
			"$set": bson.M{
				"name":            tmpl.Name,
				"html":            tmpl.HTML,
				"description":     tmpl.Description,
				"default_subject": tmpl.DefaultSubject,
				"is_default":      tmpl.IsDefault,
				"variables":       tmpl.Variables,
				"updated_at":      tmpl.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"created_at": now,
			},
		}

		opts := options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After)

		var stored Template
		err := t.collection.FindOneAndUpdate(ctxTimeout, bson.M{"_id": tmpl.RecordID}, update, opts).Decode(&stored)
		if err != nil {
			return nil, fmt.Errorf("failed to store template %s: %w", tmpl.RecordID, err)
		}

		tmpl.CreatedAt = stored.CreatedAt
		return tmpl, nil
	}

	return withTransaction(ctx, client, txnFunc)
}

// GetAll lists templates with the default one first, then by name.
func (t *TemplateStorage) GetAll(ctx context.Context) ([]Template, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "is_default", Value: -1},
		{Key: "name", Value: 1},
	})

	cursor, err := t.collection.Find(ctxTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	templates := []Template{}
	if err := cursor.All(ctxTimeout, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}

	return templates, nil
}

func (t *TemplateStorage) GetByID(ctx context.Context, recordID string) (*Template, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var tmpl Template
	err := t.collection.FindOne(ctxTimeout, bson.M{"_id": recordID}).Decode(&tmpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("template id %s: %w", recordID, ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}

	return &tmpl, nil
}
