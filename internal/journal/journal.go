package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

// Journal keeps a local record of committed orders for end-of-shift
// reconciliation. Only acknowledged orders land here, never carts; an entry
// is written after the backend accepted the submission.
type Journal struct {
	db *sql.DB
}

func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// sqlite serves one writer; a second pooled connection only buys lock
	// contention (and a fresh empty database under :memory:).
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(j.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// Record stores the order and the cart lines it was built from.
func (j *Journal) Record(ctx context.Context, ord *domain.Order, lines []domain.CartLine) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin journal tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (order_id, total_amount, submitted_at) VALUES ($1, $2, $3)`,
		ord.ID, ord.TotalAmount, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, l := range lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, product_id, name, unit_price, quantity) VALUES ($1, $2, $3, $4, $5)`,
			ord.ID, l.ProductID, l.Name, l.UnitPrice, l.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal tx: %w", err)
	}
	return nil
}

// Entry is one journaled order as shown in the shift history.
type Entry struct {
	OrderID     int64     `json:"orderId"`
	TotalAmount int64     `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// History returns the most recent committed orders, newest first.
func (j *Journal) History(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT o.order_id, o.total_amount, o.submitted_at, COUNT(l.product_id)
		FROM orders o
		LEFT JOIN order_lines l ON l.order_id = o.order_id
		GROUP BY o.order_id, o.total_amount, o.submitted_at
		ORDER BY o.submitted_at DESC, o.order_id DESC
		LIMIT $1
	`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.OrderID, &e.TotalAmount, &e.SubmittedAt, &e.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}
