package models

import "time"

// Note is study material shared with a class.
type Note struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subject  string    `json:"subject"`
	Class    string    `json:"class"`
	FileURL  string    `json:"file_url,omitempty"`
	Uploaded time.Time `json:"uploaded"`
}

// EntityID implements store.Entity.
func (n Note) EntityID() string { return n.ID }

// WithID implements store.Entity.
func (n Note) WithID(id string) Note {
	n.ID = id
	return n
}
