package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/postgres"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// productRow is the wire shape of the products table.
type productRow struct {
	ID              string
	Name            sql.NullString
	Price           sql.NullFloat64
	Description     sql.NullString
	LongDescription sql.NullString
	Image           sql.NullString
	Category        sql.NullString
	Stock           sql.NullInt64
	Unit            sql.NullString
	IsFeatured      sql.NullBool
	IsBestSelling   sql.NullBool
	IsNew           sql.NullBool
	CreatedAt       sql.NullTime
}

// toProduct maps a row into a Product, defaulting optional columns and
// rejecting rows that cannot be sold.
func (r productRow) toProduct() (Product, error) {
	name := strings.TrimSpace(r.Name.String)
	if r.ID == "" || name == "" {
		return Product{}, fmt.Errorf("product row %q: missing id or name", r.ID)
	}
	if !r.Price.Valid || r.Price.Float64 <= 0 {
		return Product{}, fmt.Errorf("product row %q: invalid price", r.ID)
	}
	stock := int(r.Stock.Int64)
	if stock < 0 {
		stock = 0
	}
	unit := strings.TrimSpace(r.Unit.String)
	if unit == "" {
		unit = DefaultUnit
	}
	p := Product{
		ID:              r.ID,
		Name:            name,
		Price:           r.Price.Float64,
		Description:     r.Description.String,
		LongDescription: r.LongDescription.String,
		Image:           r.Image.String,
		Category:        r.Category.String,
		Stock:           stock,
		Unit:            unit,
		IsFeatured:      r.IsFeatured.Valid && r.IsFeatured.Bool,
		IsBestSelling:   r.IsBestSelling.Valid && r.IsBestSelling.Bool,
		IsNew:           r.IsNew.Valid && r.IsNew.Bool,
	}
	if r.CreatedAt.Valid {
		p.CreatedAt = r.CreatedAt.Time
	}
	return p, nil
}

const selectProducts = `SELECT id,name,price,description,long_description,image,category,stock,unit,
	is_featured,is_best_selling,is_new,created_at FROM products`

func (r *postgresRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProducts+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var row productRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Price, &row.Description, &row.LongDescription,
			&row.Image, &row.Category, &row.Stock, &row.Unit,
			&row.IsFeatured, &row.IsBestSelling, &row.IsNew, &row.CreatedAt); err != nil {
			return nil, err
		}
		p, err := row.toProduct()
		if err != nil {
			log.Printf("catalog: skipping row: %v", err)
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Create(ctx context.Context, p Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, name, price, description, long_description, image, category, stock, unit,
		   is_featured, is_best_selling, is_new, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.Name, p.Price, p.Description, nullable(p.LongDescription), p.Image, p.Category,
		p.Stock, p.Unit, p.IsFeatured, p.IsBestSelling, p.IsNew, p.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return apperr.Validation(fmt.Sprintf("product %s already exists", p.ID))
	}
	return err
}

func (r *postgresRepo) Update(ctx context.Context, p Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, price=$2, description=$3, long_description=$4, image=$5, category=$6,
		    stock=$7, unit=$8, is_featured=$9, is_best_selling=$10, is_new=$11
		WHERE id=$12`,
		p.Name, p.Price, p.Description, nullable(p.LongDescription), p.Image, p.Category,
		p.Stock, p.Unit, p.IsFeatured, p.IsBestSelling, p.IsNew, p.ID)
	return affected(res, err)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	return affected(res, err)
}

func (r *postgresRepo) BulkInsert(ctx context.Context, products []Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i, p := range products {
		// keep the given order when listing newest first
		created := now.Add(-time.Duration(i) * time.Second)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products
			  (id, name, price, description, long_description, image, category, stock, unit,
			   is_featured, is_best_selling, is_new, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Price, p.Description, nullable(p.LongDescription), p.Image, p.Category,
			p.Stock, p.Unit, p.IsFeatured, p.IsBestSelling, p.IsNew, created)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

type categoryPostgresRepo struct{ db *sql.DB }

func NewCategoryPostgresRepository(db *sql.DB) CategoryRepository {
	return &categoryPostgresRepo{db: db}
}

func (r *categoryPostgresRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if n := strings.TrimSpace(name.String); n != "" {
			names = append(names, n)
		}
	}
	return names, rows.Err()
}

func (r *categoryPostgresRepo) Add(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES ($1)`, name)
	if postgres.IsUniqueViolation(err) {
		return apperr.Validation(fmt.Sprintf("category %q already exists", name))
	}
	return err
}

func (r *categoryPostgresRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name=$1`, name)
	return affected(res, err)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
