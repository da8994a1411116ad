package waitqueue

import (
	"errors"
	"fmt"

	"github.com/google/btree"
)

var ErrDuplicate = errors.New("client is already queued")

// Entry is a queued client.
type Entry struct {
	ID   string
	Role Role

	ticket uint64
}

// Queue is a FIFO of client ids that supports removal from any position.
// Entries are ordered by arrival ticket, so the order is never reshuffled.
//
// Queue is not safe for concurrent use; the owner must serialize access.
type Queue struct {
	tree   *btree.BTreeG[Entry]
	index  map[string]Entry
	ticket uint64
}

func byTicket(a, b Entry) bool {
	return a.ticket < b.ticket
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{
		tree:  btree.NewG[Entry](8, byTicket),
		index: make(map[string]Entry),
	}
}

// Enqueue appends id to the tail of the queue.
func (q *Queue) Enqueue(id string, role Role) error {
	if _, ok := q.index[id]; ok {
		return fmt.Errorf("enqueue %q: %w", id, ErrDuplicate)
	}
	q.ticket++
	e := Entry{ID: id, Role: role, ticket: q.ticket}
	q.tree.ReplaceOrInsert(e)
	q.index[id] = e
	return nil
}

// Head returns the earliest queued entry.
func (q *Queue) Head() (Entry, bool) {
	return q.tree.Min()
}

// IsHead reports whether id is at the head of the queue.
func (q *Queue) IsHead(id string) bool {
	head, ok := q.Head()
	return ok && head.ID == id
}

// RemoveHead removes id, which must be the current head.
// Calling it for any other id is a bug in the caller.
func (q *Queue) RemoveHead(id string) {
	if !q.IsHead(id) {
		panic(fmt.Sprintf("waitqueue: %q is not the head of the queue", id))
	}
	q.tree.DeleteMin()
	delete(q.index, id)
}

// Remove deletes id wherever it sits. It reports whether id was queued.
func (q *Queue) Remove(id string) bool {
	e, ok := q.index[id]
	if !ok {
		return false
	}
	q.tree.Delete(e)
	delete(q.index, id)
	return true
}

// Contains reports whether id is queued.
func (q *Queue) Contains(id string) bool {
	_, ok := q.index[id]
	return ok
}

func (q *Queue) Len() int {
	return q.tree.Len()
}

// Count returns the number of queued entries with the given role.
func (q *Queue) Count(role Role) int {
	cnt := 0
	q.tree.Ascend(func(e Entry) bool {
		if e.Role == role {
			cnt++
		}
		return true
	})
	return cnt
}

// IDs returns queued ids in arrival order.
func (q *Queue) IDs() []string {
	ids := make([]string, 0, q.tree.Len())
	q.tree.Ascend(func(e Entry) bool {
		ids = append(ids, e.ID)
		return true
	})
	return ids
}
