// Package memory holds repository implementations kept in process memory.
// They back the "memory" database driver and the handler tests.
package memory

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// table keeps documents in insertion order, which is also creation order.
type table[T any] struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	rows  map[primitive.ObjectID]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) insert(id primitive.ObjectID, row T) {
	t.order = append(t.order, id)
	t.rows[id] = row
}

func (t *table[T]) remove(id primitive.ObjectID) {
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

// filter returns the rows matching keep in creation order.
func (t *table[T]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, id := range t.order {
		if row := t.rows[id]; keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func now() time.Time {
	return time.Now().UTC()
}
