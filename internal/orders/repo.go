package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Storage is the persistence contract the lifecycle manager consumes.
type Storage interface {
	Insert(ctx context.Context, in InsertOrder) error
	LastTokenNumber(ctx context.Context) (string, bool, error)
	GetByOrderID(ctx context.Context, orderID string) (Order, error)
	UpdateStatus(ctx context.Context, orderID string, st Status) (Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

// InsertOrder carries the fields persisted at creation. Everything except
// status is immutable afterwards; there is no delete path.
type InsertOrder struct {
	OrderID       string
	UserID        int64
	ProductID     int64
	Price         decimal.Decimal
	PaymentStatus PaymentStatus
	TokenNumber   string
	Status        Status
}

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `
	o.id, o.order_id, o.price, o.payment_status, o.token_number, o.status,
	o.created_at, o.updated_at,
	u.id, u.name, u.email,
	p.id, p.name, p.price, p.category`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderID, &o.Price, &o.PaymentStatus, &o.TokenNumber, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
		&o.User.ID, &o.User.Name, &o.User.Email,
		&o.Product.ID, &o.Product.Name, &o.Product.Price, &o.Product.Category,
	)
	return o, err
}

func (r *Repo) Insert(ctx context.Context, in InsertOrder) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(order_id, user_id, product_id, price, payment_status, token_number, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, in.OrderID, in.UserID, in.ProductID, in.Price, in.PaymentStatus, in.TokenNumber, in.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "orders_token_number_key" {
			return fmt.Errorf("%w: %s", ErrTokenTaken, in.TokenNumber)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// LastTokenNumber reads the token of the most recently created order.
// ok=false means the order table is empty.
func (r *Repo) LastTokenNumber(ctx context.Context) (string, bool, error) {
	var tok string
	err := r.DB.QueryRow(ctx, `
		SELECT token_number FROM orders ORDER BY created_at DESC, id DESC LIMIT 1
	`).Scan(&tok)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("last token: %w", err)
	}
	return tok, true, nil
}

func (r *Repo) GetByOrderID(ctx context.Context, orderID string) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN products p ON p.id = o.product_id
		WHERE o.order_id = $1
	`, orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, orderID string, st Status) (Order, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE order_id = $1
	`, orderID, st)
	if err != nil {
		return Order{}, fmt.Errorf("update status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return Order{}, ErrOrderNotFound
	}
	return r.GetByOrderID(ctx, orderID)
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return r.list(ctx, `WHERE o.user_id = $1`, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, ``)
}

func (r *Repo) list(ctx context.Context, where string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN products p ON p.id = o.product_id
		`+where+`
		ORDER BY o.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

var _ Storage = (*Repo)(nil)
