package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Customer is a tenant organization owning users and services.
type Customer struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// CreateCustomer inserts a new customer with a freshly generated id.
func (s *Store) CreateCustomer(ctx context.Context, displayName string, actor uuid.UUID) (Customer, error) {
	customer := Customer{ID: uuid.New(), DisplayName: displayName}

	err := s.withConn(ctx, actor, fmt.Sprintf("creating customer {%s} with id {%s}", displayName, customer.ID), func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			`INSERT INTO customers (id, display_name) VALUES ($1, $2)`,
			customer.ID, customer.DisplayName)
		return err
	})
	if err != nil {
		return Customer{}, err
	}
	return customer, nil
}

// ListCustomers returns all customers.
func (s *Store) ListCustomers(ctx context.Context, actor uuid.UUID) ([]Customer, error) {
	customers := make([]Customer, 0)

	err := s.withConn(ctx, actor, "listing customers", func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT id, display_name FROM customers ORDER BY display_name, id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c Customer
			if err := rows.Scan(&c.ID, &c.DisplayName); err != nil {
				return err
			}
			customers = append(customers, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// DeleteCustomer removes a customer; membership and service joins cascade.
// Deleting a customer that does not exist is an error.
func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	return s.withConn(ctx, actor, fmt.Sprintf("deleting customer {%s}", id), func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: customer %s", ErrNotFound, id)
		}
		return nil
	})
}
