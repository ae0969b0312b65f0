package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hnzhou16/template-mailer/internal/db"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	QueryTimeout = 5 * time.Second
)

type Collection struct {
	Template interface {
		Store(ctx context.Context, t *Template) error
		GetAll(ctx context.Context) ([]Template, error)
		GetByID(ctx context.Context, recordID string) (*Template, error)
	}
}

func NewMongoDBCollections(ctx context.Context, dbConn *db.DBConnection) (Collection, error) {
	templateStorage := &TemplateStorage{
		collection: dbConn.GetCollection("template"),
	}

	if err := templateStorage.CreateIndexes(ctx); err != nil {
		return Collection{}, err
	}

	return Collection{
		Template: templateStorage,
	}, nil
}

// withTransaction requires the MongoDB deployment to be a replica set.
func withTransaction(ctx context.Context, client *mongo.Client, txnFunc func(mongo.SessionContext) (interface{}, error)) error {
	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, txnFunc)
	return err
}
