package gateway

import "sync"

// Directory is the in-memory mapping from user id to that user's single
// active connection. Exactly one entry exists per user: a newer connection
// for the same user overwrites the older one. The zero directory is not
// usable; construct with NewDirectory so instances stay injectable and
// isolated in tests.
type Directory struct {
	mu      sync.RWMutex
	entries map[int64]*Client
}

// NewDirectory creates an empty presence directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[int64]*Client)}
}

// Register binds a user to a connection, unconditionally replacing any
// existing entry (last-connection-wins).
func (d *Directory) Register(userID int64, client *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[userID] = client
}

// Lookup returns the user's current connection, if any.
func (d *Directory) Lookup(userID int64) (*Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	client, ok := d.entries[userID]
	return client, ok
}

// Remove deletes the user's entry only if it still references the given
// client. A disconnect from a superseded connection is therefore a no-op
// and cannot evict a newer registration. Reports whether an entry was
// removed.
func (d *Directory) Remove(userID int64, client *Client) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if current, ok := d.entries[userID]; ok && current == client {
		delete(d.entries, userID)
		return true
	}
	return false
}

// Online returns a snapshot of all currently registered user ids.
func (d *Directory) Online() []int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]int64, 0, len(d.entries))
	for id := range d.entries {
		ids = append(ids, id)
	}
	return ids
}
