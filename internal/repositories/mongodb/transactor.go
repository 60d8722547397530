package mongodb

import (
	"context"

	"yatraseva/internal/repositories/interfaces"
	"yatraseva/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
)

type transactor struct {
	db *database.MongoDB
}

func NewTransactor(db *database.MongoDB) interfaces.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// The inner error comes back unwrapped so state-conflict sentinels
	// survive for errors.Is checks in callers.
	_, err := t.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
