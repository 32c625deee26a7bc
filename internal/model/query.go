package model

import (
	"fmt"
	"time"
)

// QueryID identifies a row in the `queries` table.
type QueryID uint64

// QueryStatus is the handling state of a contact message.
type QueryStatus string

const (
	QueryPending  QueryStatus = "pending"
	QueryResolved QueryStatus = "resolved"
)

// ParseQueryStatus rejects anything but pending or resolved.
func ParseQueryStatus(s string) (QueryStatus, error) {
	switch QueryStatus(s) {
	case QueryPending, QueryResolved:
		return QueryStatus(s), nil
	}
	return "", fmt.Errorf("unknown query status %q", s)
}

// Query is a contact message.  UserID is zero for anonymous senders.
type Query struct {
	ID        QueryID     `json:"id"`
	UserID    UserID      `json:"user_id,omitempty"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Message   string      `json:"message"`
	Status    QueryStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// QueryStats holds counts over all contact messages.
type QueryStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
}

// TallyQueries counts queries by status.
func TallyQueries(qs []Query) QueryStats {
	st := QueryStats{Total: len(qs)}
	for _, q := range qs {
		switch q.Status {
		case QueryPending:
			st.Pending++
		case QueryResolved:
			st.Resolved++
		}
	}
	return st
}
