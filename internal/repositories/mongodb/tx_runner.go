package mongodb

import (
	"context"

	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure TxRunner implements the interface
var _ repositories.TransactionRunner = (*TxRunner)(nil)

// TxRunner runs repository calls inside a single MongoDB transaction. All
// writes issued through the session context commit or abort together, so a
// failure midway through the reward decision procedure leaves no partial
// state behind.
type TxRunner struct {
	client *mongo.Client
}

// NewTxRunner creates a new TxRunner
func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

// WithTransaction executes fn inside a MongoDB session transaction
func (t *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
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
