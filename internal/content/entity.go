package content

import (
	"strconv"
	"time"
)

// Entity is a content item that can be printed and mailed.
type Entity struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrintTitle implements pdf.Page.
func (e *Entity) PrintTitle() string { return e.Label }

// PrintBody implements pdf.Page.
func (e *Entity) PrintBody() string { return e.Body }

// URL returns the canonical view path of the entity.
func (e *Entity) URL() string { return ViewURL(e.ID) }

// ViewURL returns the canonical view path of the entity with id.
func ViewURL(id int64) string {
	return "/content/" + strconv.FormatInt(id, 10)
}
