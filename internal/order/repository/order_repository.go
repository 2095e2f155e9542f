package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"grubdash/internal/domain"
	"grubdash/internal/errors"
)

const mysqlDuplicateEntry = 1062

const createOrdersTable = `
	CREATE TABLE IF NOT EXISTS Orders (
		seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NOT NULL,
		deliverTo VARCHAR(255) NOT NULL,
		mobileNumber VARCHAR(50) NOT NULL,
		status VARCHAR(32) NOT NULL,
		dishes JSON NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_orders_id (id)
	)`

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// EnsureSchema creates the Orders table when it is missing.
func (r *MySQLOrderRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createOrdersTable); err != nil {
		return fmt.Errorf("creating Orders table: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, deliverTo, mobileNumber, status, dishes
		FROM Orders
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, deliverTo, mobileNumber, status, dishes
		FROM Orders
		WHERE id = ?
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *MySQLOrderRepository) Append(ctx context.Context, order domain.Order) error {
	dishes, err := encodeDishes(order.Dishes)
	if err != nil {
		return err
	}

	query := `INSERT INTO Orders (id, deliverTo, mobileNumber, status, dishes) VALUES (?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query, order.ID, order.DeliverTo, order.MobileNumber, string(order.Status), dishes)
	if isDuplicateEntry(err) {
		return errors.NewConflictError(fmt.Sprintf("Order %s already exists", order.ID))
	}
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) Update(ctx context.Context, order domain.Order) error {
	dishes, err := encodeDishes(order.Dishes)
	if err != nil {
		return err
	}

	// rows affected reports changed rows only, so existence is checked apart
	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM Orders WHERE id = ?)`, order.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking order existence: %w", err)
	}
	if !exists {
		return notFound(order.ID)
	}

	query := `UPDATE Orders SET deliverTo = ?, mobileNumber = ?, status = ?, dishes = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, order.DeliverTo, order.MobileNumber, string(order.Status), dishes, order.ID); err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) RemoveByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound(id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
		dishes []byte
	)
	if err := row.Scan(&order.ID, &order.DeliverTo, &order.MobileNumber, &status, &dishes); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning order row: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	decoded, err := decodeDishes(dishes)
	if err != nil {
		return nil, fmt.Errorf("decoding dishes of order %s: %w", order.ID, err)
	}
	order.Dishes = decoded

	return &order, nil
}

// Dishes are stored as the JSON array clients see, quantity merged into each
// object.
func encodeDishes(dishes []domain.Dish) ([]byte, error) {
	objects := make([]map[string]json.RawMessage, len(dishes))
	for i, d := range dishes {
		objects[i] = d.Object()
	}
	b, err := json.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("encoding dishes: %w", err)
	}
	return b, nil
}

func decodeDishes(b []byte) ([]domain.Dish, error) {
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(b, &objects); err != nil {
		return nil, err
	}
	dishes := make([]domain.Dish, len(objects))
	for i, obj := range objects {
		var quantity int
		if err := json.Unmarshal(obj["quantity"], &quantity); err != nil {
			return nil, fmt.Errorf("dish %d quantity: %w", i, err)
		}
		dishes[i] = domain.NewDish(quantity, obj)
	}
	return dishes, nil
}
