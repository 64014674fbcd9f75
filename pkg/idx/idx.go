// Package idx mints the sortable identifiers used for account ids, refresh
// token rows, request ids and client session tags.
package idx

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is the canonical 26 character ULID text form.
type ID string

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns an ID stamped with the current time. IDs minted by one process
// sort in creation order, even within the same millisecond.
func New() ID {
	return NewAt(time.Now())
}

// NewAt returns an ID stamped with t.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

func (id ID) String() string { return string(id) }

// Time returns the creation time encoded in id. Account ids minted from
// custom tokens are caller-chosen and yield the zero time.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

// Compare orders IDs by creation time.
func Compare(a, b ID) int {
	return strings.Compare(string(a), string(b))
}
