package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/postgres"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// orderRow is the wire shape of the orders table.
type orderRow struct {
	ID            string
	CustomerName  sql.NullString
	CustomerPhone sql.NullString
	Location      sql.NullString
	Items         []byte
	TotalPrice    sql.NullFloat64
	Status        sql.NullString
	CreatedAt     sql.NullTime
}

// toOrder maps a row into an Order. The stored total is kept as-is.
func (r orderRow) toOrder() (Order, error) {
	if r.ID == "" {
		return Order{}, errors.New("order row: missing id")
	}
	var items []CartItem
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &items); err != nil {
			return Order{}, fmt.Errorf("order row %s: items: %w", r.ID, err)
		}
	}
	if items == nil {
		items = []CartItem{}
	}
	status := Status(strings.TrimSpace(r.Status.String))
	if !status.Valid() {
		status = StatusPending
	}
	o := Order{
		ID:            r.ID,
		CustomerName:  r.CustomerName.String,
		CustomerPhone: strings.TrimSpace(r.CustomerPhone.String),
		Location:      Location(r.Location.String),
		Items:         items,
		TotalPrice:    r.TotalPrice.Float64,
		Status:        status,
	}
	if r.CreatedAt.Valid {
		o.CreatedAt = r.CreatedAt.Time
	}
	return o, nil
}

const selectOrders = `SELECT id,customer_name,customer_phone,location,items,total_price,status,created_at FROM orders`

func (r *postgresRepo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrders+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(&row.ID, &row.CustomerName, &row.CustomerPhone, &row.Location,
			&row.Items, &row.TotalPrice, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		o, err := row.toOrder()
		if err != nil {
			log.Printf("order: skipping row: %v", err)
			continue
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, id string) (Order, error) {
	var row orderRow
	err := r.db.QueryRowContext(ctx, selectOrders+` WHERE id=$1`, id).Scan(
		&row.ID, &row.CustomerName, &row.CustomerPhone, &row.Location,
		&row.Items, &row.TotalPrice, &row.Status, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, apperr.ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return row.toOrder()
}

func (r *postgresRepo) Create(ctx context.Context, o Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders
		  (id, customer_name, customer_phone, location, items, total_price, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.CustomerName, o.CustomerPhone, o.Location, items, o.TotalPrice, o.Status, o.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, status, id)
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
