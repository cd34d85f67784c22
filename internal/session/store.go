// Package session keeps server-side login sessions and the signed cookie that points at them.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Data is what a session remembers about the signed-in account.
type Data struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists sessions until they are destroyed or their TTL runs out.
type Store interface {
	Create(ctx context.Context, data Data) (id string, err error)
	// Get returns ErrNotFound for unknown and expired ids.
	Get(ctx context.Context, id string) (*Data, error)
	Destroy(ctx context.Context, id string) error
}
