package score

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"
)

// PostgreSQL 积分存储实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 积分存储
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS scores (
            key VARCHAR(255) PRIMARY KEY,
            points BIGINT NOT NULL DEFAULT 0,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	return err
}

// Increment upserts in one statement; the database serializes concurrent
// awards for the same key.
func (p *PostgreSQL) Increment(key string, delta int) (int, error) {
	var total int
	err := p.db.QueryRow(`
        INSERT INTO scores (key, points, updated_at)
        VALUES ($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT (key) DO UPDATE
        SET points = scores.points + EXCLUDED.points,
            updated_at = CURRENT_TIMESTAMP
        RETURNING points
    `, key, delta).Scan(&total)
	return total, err
}

func (p *PostgreSQL) Total(key string) (int, error) {
	var total int
	err := p.db.QueryRow(`SELECT points FROM scores WHERE key = $1`, key).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return total, err
}

func (p *PostgreSQL) Top(n int) ([]Entry, error) {
	rows, err := p.db.Query(`
        SELECT key, points FROM scores
        ORDER BY points DESC, key ASC
        LIMIT $1
    `, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Points); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *PostgreSQL) Reset() error {
	_, err := p.db.Exec(`DELETE FROM scores`)
	return err
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
