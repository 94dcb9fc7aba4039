package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/db"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

type snapshotRepository struct {
	q *db.Queries
}

func NewSnapshot(pool *pgxpool.Pool) port.SnapshotStore {
	return &snapshotRepository{
		q: db.New(pool),
	}
}

func NewSnapshotWithTx(tx pgx.Tx) port.SnapshotStore {
	return &snapshotRepository{
		q: db.New(tx),
	}
}

func (r *snapshotRepository) Get(ctx context.Context, ownerID, key string) (string, bool, error) {
	if err := validateKey(ownerID, key); err != nil {
		return "", false, err
	}

	payload, err := r.q.GetSnapshot(ctx, db.GetSnapshotParams{
		OwnerID: ownerID,
		Key:     key,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetSnapshot: %w", err)
	}

	return payload, true, nil
}

func (r *snapshotRepository) Set(ctx context.Context, ownerID, key, value string) error {
	if err := validateKey(ownerID, key); err != nil {
		return err
	}

	err := r.q.SetSnapshot(ctx, db.SetSnapshotParams{
		OwnerID: ownerID,
		Key:     key,
		Payload: value,
	})
	if err != nil {
		return fmt.Errorf("q.SetSnapshot: %w", err)
	}

	return nil
}

func validateKey(ownerID, key string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	return nil
}
