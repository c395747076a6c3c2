package services

import "context"

// TxRunner runs fn atomically. The mongo implementation carries a session in
// the context it hands to fn; repository calls made with that context join
// the transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
