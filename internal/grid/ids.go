package grid

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDCounter hands out sequential identifiers shaped like UUIDs, e.g.
// 00000000-0000-0000-0000-00000000002a. The counter is owned by whoever
// creates it (typically a server adapter); it is monotonic for its own
// lifetime and starts over when a new counter is made.
type IDCounter struct {
	n atomic.Uint64
}

func NewIDCounter() *IDCounter {
	return &IDCounter{}
}

// Next returns the next identifier. The first call returns ...000000000001.
func (c *IDCounter) Next() string {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], c.n.Add(1))
	return id.String()
}

// Count is the number of identifiers issued since the last Reset.
func (c *IDCounter) Count() uint64 {
	return c.n.Load()
}

func (c *IDCounter) Reset() {
	c.n.Store(0)
}

// Assign issues one identifier per cell of g in row-major order.
func (c *IDCounter) Assign(g *Grid) []string {
	ids := make([]string, g.Len())
	for i := range ids {
		ids[i] = c.Next()
	}
	return ids
}
