package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/99minutos/store-api/internal/core/domain"
)

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, description, price, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Price, p.CreatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT id, name, description, price, created_at FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		// a malformed uuid cannot name an existing product
		if code, _ := pgCode(err); code == codeInvalidTextRepr {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, skip, limit int) ([]*domain.Product, error) {
	query := `SELECT id, name, description, price, created_at FROM products
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
