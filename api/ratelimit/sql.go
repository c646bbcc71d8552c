package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLStore keeps counters in the rate_limit table so that every instance
// sharing the database sees the same counts.
type SQLStore struct {
	DB *sql.DB
}

func (s SQLStore) Incr(ctx context.Context, bucket string, now time.Time, d time.Duration) (int, time.Time, error) {
	nowMs := now.UnixMilli()
	resetMs := now.Add(d).UnixMilli()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO rate_limit (bucket, hits, reset_at) VALUES ($1, 1, $2)
		 ON CONFLICT (bucket) DO UPDATE SET
		   hits = CASE WHEN rate_limit.reset_at <= $3 THEN 1 ELSE rate_limit.hits + 1 END,
		   reset_at = CASE WHEN rate_limit.reset_at <= $3 THEN excluded.reset_at ELSE rate_limit.reset_at END`,
		bucket, resetMs, nowMs,
	)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("error incrementing rate_limit: %w", err)
	}
	var hits int
	var resetAt int64
	if err := s.DB.QueryRowContext(ctx,
		`SELECT hits, reset_at FROM rate_limit WHERE bucket = $1`, bucket,
	).Scan(&hits, &resetAt); err != nil {
		return 0, time.Time{}, fmt.Errorf("error reading rate_limit: %w", err)
	}
	return hits, time.UnixMilli(resetAt), nil
}

// Cleanup deletes windows that ended before now.
func (s SQLStore) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM rate_limit WHERE reset_at <= $1`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("error cleaning rate_limit: %w", err)
	}
	return res.RowsAffected()
}
