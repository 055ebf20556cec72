package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs a unit of work inside a multi-document transaction when the
// deployment supports it (replica set or sharded cluster). With transactions
// disabled fn runs directly and each write commits on its own.
type TxRunner struct {
	client  *mongo.Client
	enabled bool
}

func NewTxRunner(client *mongo.Client, enabled bool) *TxRunner {
	return &TxRunner{client: client, enabled: enabled}
}

func (r *TxRunner) Transactional() bool {
	return r.enabled
}

// WithinTransaction may invoke fn more than once on transient errors.
func (r *TxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.enabled {
		return fn(ctx)
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
