package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"binduty-service/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// RecordDelivery archives one channel attempt.
func (d *DB) RecordDelivery(ctx context.Context, del models.Delivery) error {
	query := `
        INSERT INTO deliveries (
            id, created_at, purpose, channel, recipient, address, subject, body, status, last_error
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := d.Pool.Exec(ctx, query,
		pgtype.UUID{Bytes: del.ID, Valid: true}, del.CreatedAt, del.Purpose, string(del.Channel),
		del.Recipient, del.Address, del.Subject, del.Body, del.Status, del.Error)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// ListDeliveries returns archived attempts, newest first. An empty status matches all.
func (d *DB) ListDeliveries(ctx context.Context, status string, limit, offset int) ([]models.Delivery, error) {
	limit, offset = Page(limit, offset)
	query := `
        SELECT id, created_at, purpose, channel, recipient, address, subject, body, status, last_error
        FROM deliveries
        WHERE ($1 = '' OR status = $1)
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := d.Pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []models.Delivery{}
	for rows.Next() {
		var (
			del     models.Delivery
			id      pgtype.UUID
			channel string
		)
		err := rows.Scan(&id, &del.CreatedAt, &del.Purpose, &channel, &del.Recipient,
			&del.Address, &del.Subject, &del.Body, &del.Status, &del.Error)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		del.ID = id.Bytes
		del.Channel = models.Channel(channel)
		deliveries = append(deliveries, del)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deliveries: %w", err)
	}
	return deliveries, nil
}

// Page clamps paging parameters.
func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
