package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

type customerRow struct {
	Phone        string
	Name         sql.NullString
	TotalOrders  sql.NullInt64
	TotalSpent   sql.NullFloat64
	LastLocation sql.NullString
	LastOrderAt  sql.NullTime
}

func (r customerRow) toCustomer() (Customer, error) {
	phone := strings.TrimSpace(r.Phone)
	if phone == "" {
		return Customer{}, errors.New("customer row: missing phone")
	}
	c := Customer{
		Phone:        phone,
		Name:         r.Name.String,
		OrderCount:   int(r.TotalOrders.Int64),
		TotalSpent:   r.TotalSpent.Float64,
		LastLocation: order.Location(r.LastLocation.String),
	}
	if c.OrderCount < 0 {
		c.OrderCount = 0
	}
	if r.LastOrderAt.Valid {
		c.LastOrderAt = r.LastOrderAt.Time
	}
	return c, nil
}

const selectCustomers = `SELECT phone,name,total_orders,total_spent,last_location,last_order_at FROM customers`

func scanCustomer(scan func(dest ...interface{}) error) (customerRow, error) {
	var row customerRow
	err := scan(&row.Phone, &row.Name, &row.TotalOrders, &row.TotalSpent, &row.LastLocation, &row.LastOrderAt)
	return row, err
}

func (r *postgresRepo) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx, selectCustomers+` ORDER BY total_spent DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		row, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, err
		}
		c, err := row.toCustomer()
		if err != nil {
			continue
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, phone string) (Customer, error) {
	row, err := scanCustomer(r.db.QueryRowContext(ctx, selectCustomers+` WHERE phone=$1`, phone).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, apperr.ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return row.toCustomer()
}

const upsertCustomer = `
	INSERT INTO customers (phone, name, total_orders, total_spent, last_location, last_order_at)
	VALUES ($1,$2,$3,$4,$5,$6)
	ON CONFLICT (phone) DO UPDATE SET
	  name=EXCLUDED.name, total_orders=EXCLUDED.total_orders, total_spent=EXCLUDED.total_spent,
	  last_location=EXCLUDED.last_location, last_order_at=EXCLUDED.last_order_at`

func (r *postgresRepo) Upsert(ctx context.Context, c Customer) error {
	_, err := r.db.ExecContext(ctx, upsertCustomer,
		c.Phone, c.Name, c.OrderCount, c.TotalSpent, c.LastLocation, c.LastOrderAt)
	return err
}

func (r *postgresRepo) ReplaceAll(ctx context.Context, customers []Customer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers`); err != nil {
		return fmt.Errorf("clear customers: %w", err)
	}
	for _, c := range customers {
		if _, err := tx.ExecContext(ctx, upsertCustomer,
			c.Phone, c.Name, c.OrderCount, c.TotalSpent, c.LastLocation, c.LastOrderAt); err != nil {
			return fmt.Errorf("insert customer %s: %w", c.Phone, err)
		}
	}
	return tx.Commit()
}
