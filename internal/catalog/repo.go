package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Storage is the persistence contract the service layer consumes.
type Storage interface {
	Create(ctx context.Context, name string, price decimal.Decimal, availability bool, description, category string, createdBy int64) (Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Update(ctx context.Context, id int64, patch Patch) (Product, error)
	Delete(ctx context.Context, id int64) error
	ListAvailable(ctx context.Context) ([]Product, error)
	ListAll(ctx context.Context) ([]Product, error)
}

type Repo struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const productColumns = `
	p.id, p.name, p.price, p.availability, p.description, p.category,
	p.created_at, p.updated_at,
	u.id, u.name, u.email`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Availability, &p.Description, &p.Category,
		&p.CreatedAt, &p.UpdatedAt,
		&p.CreatedBy.ID, &p.CreatedBy.Name, &p.CreatedBy.Email,
	)
	return p, err
}

func (r *Repo) Create(ctx context.Context, name string, price decimal.Decimal, availability bool, description, category string, createdBy int64) (Product, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO products(name, price, availability, description, category, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, name, price, availability, description, category, createdBy).Scan(&id)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN users u ON u.id = p.created_by
		WHERE p.id = $1
	`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of patch. The column set varies per
// call, which is what the squirrel builder is for.
func (r *Repo) Update(ctx context.Context, id int64, patch Patch) (Product, error) {
	q := r.sq.Update("products").Set("updated_at", squirrel.Expr("now()"))
	if patch.Name != nil {
		q = q.Set("name", *patch.Name)
	}
	if patch.Price != nil {
		q = q.Set("price", *patch.Price)
	}
	if patch.Availability != nil {
		q = q.Set("availability", *patch.Availability)
	}
	if patch.Description != nil {
		q = q.Set("description", *patch.Description)
	}
	if patch.Category != nil {
		q = q.Set("category", *patch.Category)
	}
	sql, args, err := q.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return Product{}, fmt.Errorf("build product update: %w", err)
	}
	ct, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ListAvailable(ctx context.Context) ([]Product, error) {
	return r.list(ctx, `WHERE p.availability`)
}

func (r *Repo) ListAll(ctx context.Context) ([]Product, error) {
	return r.list(ctx, ``)
}

func (r *Repo) list(ctx context.Context, where string) ([]Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN users u ON u.id = p.created_by
		`+where+`
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ Storage = (*Repo)(nil)
