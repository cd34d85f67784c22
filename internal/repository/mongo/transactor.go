package mongo

import (
	"alcyxob/training-app/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTransactor runs callbacks inside a MongoDB multi-document transaction.
// Requires a replica set or sharded cluster.
type mongoTransactor struct {
	client *mongo.Client
}

// NewMongoTransactor creates a repository.Transactor backed by client sessions.
func NewMongoTransactor(client *mongo.Client) repository.Transactor {
	return &mongoTransactor{client: client}
}

// WithinTransaction starts a session and runs fn with a session context, so every collection
// operation that receives that context joins the transaction.
func (t *mongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
