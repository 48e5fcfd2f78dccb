package models

// Course is a catalog entry shown on the landing pages. The fee declared here
// feeds the payment plan calculator at intake time.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Class       string `json:"class"`
	Duration    string `json:"duration,omitempty"`
	Fee         int64  `json:"fee"`
}

// EntityID implements store.Entity.
func (c Course) EntityID() string { return c.ID }

// WithID implements store.Entity.
func (c Course) WithID(id string) Course {
	c.ID = id
	return c
}
