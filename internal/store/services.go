package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service is a named entity belonging to the customers it is joined to.
type Service struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// CreateService inserts a new service with a freshly generated id.
func (s *Store) CreateService(ctx context.Context, displayName string, actor uuid.UUID) (Service, error) {
	service := Service{ID: uuid.New(), DisplayName: displayName}

	err := s.withConn(ctx, actor, fmt.Sprintf("creating service {%s} with id {%s}", displayName, service.ID), func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			`INSERT INTO services (id, display_name) VALUES ($1, $2)`,
			service.ID, service.DisplayName)
		return err
	})
	if err != nil {
		return Service{}, err
	}
	return service, nil
}

// ListServicesByCustomer returns all services joined to the given customer.
func (s *Store) ListServicesByCustomer(ctx context.Context, customerID uuid.UUID, actor uuid.UUID) ([]Service, error) {
	services := make([]Service, 0)

	err := s.withConn(ctx, actor, fmt.Sprintf("listing services in customer {%s}", customerID), func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT s.id, s.display_name
			FROM services s
			INNER JOIN customer_services cs ON s.id = cs.service_id
			WHERE cs.customer_id = $1
			ORDER BY s.display_name, s.id`,
			customerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var svc Service
			if err := rows.Scan(&svc.ID, &svc.DisplayName); err != nil {
				return err
			}
			services = append(services, svc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return services, nil
}

// AddServiceToCustomer joins a service to a customer.
func (s *Store) AddServiceToCustomer(ctx context.Context, customerID, serviceID uuid.UUID, actor uuid.UUID) error {
	return s.withConn(ctx, actor, fmt.Sprintf("adding service {%s} to customer {%s}", serviceID, customerID), func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			`INSERT INTO customer_services (customer_id, service_id) VALUES ($1, $2)`,
			customerID, serviceID)
		return err
	})
}

// DeleteService removes a service; customer joins cascade. Deleting a service
// that does not exist is an error.
func (s *Store) DeleteService(ctx context.Context, serviceID uuid.UUID, actor uuid.UUID) error {
	return s.withConn(ctx, actor, fmt.Sprintf("deleting service {%s}", serviceID), func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM services WHERE id = $1`, serviceID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: service %s", ErrNotFound, serviceID)
		}
		return nil
	})
}
