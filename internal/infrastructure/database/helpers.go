package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Ping kiểm tra database connection có còn sống không, timeout 5s.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close đóng pool. Gọi nhiều lần vẫn an toàn.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	db.Pool.Close()
	db.Pool = nil

	log.Info().Msg("database connection pool closed")
	return nil
}

// ApplySchema chạy một file SQL (migrations/001_init.sql). Các câu lệnh
// trong file phải idempotent (IF NOT EXISTS).
func (db *PostgresDB) ApplySchema(ctx context.Context, path string) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	schema, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", path, err)
	}

	// Không có tham số nên pgx dùng simple protocol, cho phép nhiều câu lệnh.
	if _, err := db.Pool.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("schema applied")
	return nil
}

// PoolStats là snapshot thống kê của connection pool cho health endpoint.
type PoolStats struct {
	TotalConns      int32         `json:"total_conns"`
	IdleConns       int32         `json:"idle_conns"`
	AcquiredConns   int32         `json:"acquired_conns"`
	MaxConns        int32         `json:"max_conns"`
	AcquireCount    int64         `json:"acquire_count"`
	AvgAcquireTime  time.Duration `json:"avg_acquire_time"`
	NewConnsCount   int64         `json:"new_conns_count"`
	CanceledAcquire int64         `json:"canceled_acquire_count"`
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:      raw.TotalConns(),
		IdleConns:       raw.IdleConns(),
		AcquiredConns:   raw.AcquiredConns(),
		MaxConns:        raw.MaxConns(),
		AcquireCount:    raw.AcquireCount(),
		AvgAcquireTime:  calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
		NewConnsCount:   raw.NewConnsCount(),
		CanceledAcquire: raw.CanceledAcquireCount(),
	}, nil
}

func calculateAvgDuration(total time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}
