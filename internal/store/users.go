package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/gatekeeper/internal/authz"
)

// AccessTokenLen is the length of the hex-encoded bearer credential.
const AccessTokenLen = 64

// User is an authenticated principal. The access token is its bearer
// credential; it is generated once at creation and never rotated here.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Role        authz.Role `json:"role"`
	AccessToken string     `json:"access_token,omitempty"`
}

// Principal converts the user into its authorization identity.
func (u User) Principal() authz.Principal {
	return authz.Principal{ID: u.ID, Role: u.Role}
}

// NewUser carries the caller-supplied fields for user creation.
type NewUser struct {
	Username string     `json:"username"`
	FullName string     `json:"full_name"`
	Role     authz.Role `json:"role"`
}

// CreateUser inserts a new user with a generated id and access token.
func (s *Store) CreateUser(ctx context.Context, data NewUser, actor uuid.UUID) (User, error) {
	token, err := generateAccessToken()
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:          uuid.New(),
		Username:    data.Username,
		FullName:    data.FullName,
		Role:        data.Role,
		AccessToken: token,
	}

	err = s.withConn(ctx, actor, fmt.Sprintf("creating user {%s} with id {%s}", data.Username, user.ID), func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			`INSERT INTO users (id, username, full_name, role, access_token) VALUES ($1, $2, $3, $4, $5)`,
			user.ID, user.Username, user.FullName, string(user.Role), user.AccessToken)
		return err
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// UserByAccessToken resolves the caller behind a bearer credential. The audit
// entry deliberately omits the token value and is attributed to the system
// actor, since no principal is known yet.
func (s *Store) UserByAccessToken(ctx context.Context, token string) (User, error) {
	var user User

	err := s.withConn(ctx, uuid.Nil, "resolving caller from access token", func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx,
			`SELECT id, username, full_name, role, access_token FROM users WHERE access_token = $1`,
			token)
		if err := row.Scan(&user.ID, &user.Username, &user.FullName, &user.Role, &user.AccessToken); err != nil {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// ListUsersByCustomer returns all users joined to the given customer.
func (s *Store) ListUsersByCustomer(ctx context.Context, customerID uuid.UUID, actor uuid.UUID) ([]User, error) {
	users := make([]User, 0)

	err := s.withConn(ctx, actor, fmt.Sprintf("listing users in customer {%s}", customerID), func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT u.id, u.username, u.full_name, u.role
			FROM users u
			INNER JOIN customer_users cu ON u.id = cu.user_id
			WHERE cu.customer_id = $1
			ORDER BY u.username, u.id`,
			customerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u User
			if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Role); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AddUserToCustomer joins a user to a customer.
func (s *Store) AddUserToCustomer(ctx context.Context, customerID, userID uuid.UUID, actor uuid.UUID) error {
	return s.withConn(ctx, actor, fmt.Sprintf("adding user {%s} to customer {%s}", userID, customerID), func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			`INSERT INTO customer_users (customer_id, user_id) VALUES ($1, $2)`,
			customerID, userID)
		return err
	})
}

// DeleteUser removes a user; memberships cascade. Deleting a user that does
// not exist is an error.
func (s *Store) DeleteUser(ctx context.Context, userID uuid.UUID, actor uuid.UUID) error {
	return s.withConn(ctx, actor, fmt.Sprintf("deleting user {%s}", userID), func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil
	})
}

// generateAccessToken returns a 32-byte random credential in hex form.
func generateAccessToken() (string, error) {
	buf := make([]byte, AccessTokenLen/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("store: failed to generate access token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
