package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Customer statuses accepted by the list filter and update operation.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// defaultListLimit caps unbounded list requests.
const defaultListLimit = 10

// Customer is one customer record. Timestamps keep SQLite's text
// representation; they are presentation data here, not computed with.
type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CustomerResult is the envelope for single-customer operations.
type CustomerResult struct {
	Success  bool      `json:"success"`
	Customer *Customer `json:"customer,omitempty"`
	Message  string    `json:"message,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// CustomerListResult is the envelope for list operations.
type CustomerListResult struct {
	Success   bool       `json:"success"`
	Count     int        `json:"count"`
	Customers []Customer `json:"customers,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// GetCustomer retrieves one customer by ID.
func (s *Store) GetCustomer(ctx context.Context, id int64) CustomerResult {
	c, err := s.scanCustomer(ctx, id)
	if err != nil {
		return CustomerResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}
	if c == nil {
		return CustomerResult{Success: false, Error: fmt.Sprintf("Customer with ID %d not found", id)}
	}
	return CustomerResult{Success: true, Customer: c}
}

// ListCustomers lists customers ordered by ID, optionally filtered by
// status. A non-positive limit falls back to the default.
func (s *Store) ListCustomers(ctx context.Context, status string, limit int) CustomerListResult {
	if status != "" && status != StatusActive && status != StatusDisabled {
		return CustomerListResult{Success: false, Error: `Status must be "active" or "disabled"`}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, name, email, phone, status, created_at, updated_at FROM customers ORDER BY id LIMIT ?`
	args := []any{limit}
	if status != "" {
		query = `SELECT id, name, email, phone, status, created_at, updated_at FROM customers WHERE status = ? ORDER BY id LIMIT ?`
		args = []any{status, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return CustomerListResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}
	defer func() { _ = rows.Close() }()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return CustomerListResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return CustomerListResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}

	return CustomerListResult{Success: true, Count: len(customers), Customers: customers}
}

// updatableFields is the closed set of customer columns an update may touch.
var updatableFields = map[string]bool{
	"name":   true,
	"email":  true,
	"phone":  true,
	"status": true,
}

// UpdateCustomer applies the given field/value pairs to a customer. Unknown
// fields are rejected; updated_at always advances.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, fields map[string]string) CustomerResult {
	existing, err := s.scanCustomer(ctx, id)
	if err != nil {
		return CustomerResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}
	if existing == nil {
		return CustomerResult{Success: false, Error: fmt.Sprintf("Customer with ID %d not found", id)}
	}

	var sets []string
	var args []any
	for field, value := range fields {
		if !updatableFields[field] {
			return CustomerResult{Success: false, Error: fmt.Sprintf("Unknown field: %s", field)}
		}
		sets = append(sets, field+" = ?")
		args = append(args, strings.TrimSpace(value))
	}
	if len(sets) == 0 {
		return CustomerResult{Success: false, Error: "No fields to update"}
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return CustomerResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}

	updated, err := s.scanCustomer(ctx, id)
	if err != nil || updated == nil {
		return CustomerResult{Success: false, Error: fmt.Sprintf("Database error: %v", err)}
	}
	return CustomerResult{
		Success:  true,
		Message:  fmt.Sprintf("Customer %d updated successfully", id),
		Customer: updated,
	}
}

// scanCustomer reads one customer row, returning nil without error for a
// missing ID.
func (s *Store) scanCustomer(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, status, created_at, updated_at FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
