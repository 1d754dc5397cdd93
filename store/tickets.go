package store

import (
	"context"
	"fmt"
)

// Ticket priorities accepted by CreateTicket.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Ticket is one support ticket record.
type Ticket struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Issue      string `json:"issue"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	CreatedAt  string `json:"created_at"`
}

// TicketResult is the envelope for ticket creation.
type TicketResult struct {
	Success bool    `json:"success"`
	Ticket  *Ticket `json:"ticket,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// HistoryResult is the envelope for ticket-history lookups.
type HistoryResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	History []Ticket `json:"history,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// CreateTicket opens a new ticket for an existing customer. New tickets
// start in the open state.
func (s *Store) CreateTicket(ctx context.Context, customerID int64, issue, priority string) TicketResult {
	if issue == "" {
		return TicketResult{Success: false, Error: "Issue description is required"}
	}
	if priority != PriorityLow && priority != PriorityMedium && priority != PriorityHigh {
		return TicketResult{Success: false, Error: `Priority must be "low", "medium" or "high"`}
	}

	customer, err := s.scanCustomer(ctx, customerID)
	if err != nil {
		return TicketResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}
	if customer == nil {
		return TicketResult{Success: false, Error: fmt.Sprintf("Customer %d not found", customerID)}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (customer_id, issue, status, priority, created_at)
		 VALUES (?, ?, 'open', ?, CURRENT_TIMESTAMP)`,
		customerID, issue, priority,
	)
	if err != nil {
		return TicketResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}

	ticketID, err := res.LastInsertId()
	if err != nil {
		return TicketResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}

	var t Ticket
	err = s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, issue, status, priority, created_at FROM tickets WHERE id = ?`, ticketID,
	).Scan(&t.ID, &t.CustomerID, &t.Issue, &t.Status, &t.Priority, &t.CreatedAt)
	if err != nil {
		return TicketResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}

	return TicketResult{Success: true, Ticket: &t}
}

// GetCustomerHistory returns all tickets for a customer, newest first.
func (s *Store) GetCustomerHistory(ctx context.Context, customerID int64) HistoryResult {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, issue, status, priority, created_at
		 FROM tickets WHERE customer_id = ?
		 ORDER BY created_at DESC, id DESC`,
		customerID,
	)
	if err != nil {
		return HistoryResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}
	defer func() { _ = rows.Close() }()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Issue, &t.Status, &t.Priority, &t.CreatedAt); err != nil {
			return HistoryResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return HistoryResult{Success: false, Error: fmt.Sprintf("Database error: %s", err)}
	}

	return HistoryResult{Success: true, Count: len(tickets), History: tickets}
}
