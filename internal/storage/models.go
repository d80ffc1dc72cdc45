package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Post is a stored blog entry. Tags is a JSON array stored as text.
type Post struct {
	Slug        string
	Title       string
	Summary     string
	Body        string
	PublishedAt time.Time
	Tags        string
}
