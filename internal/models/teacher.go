package models

// Teacher is a staff roster entry.
type Teacher struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Subjects []string `json:"subjects,omitempty"`
	Classes  []string `json:"classes,omitempty"`
}

// EntityID implements store.Entity.
func (t Teacher) EntityID() string { return t.ID }

// WithID implements store.Entity.
func (t Teacher) WithID(id string) Teacher {
	t.ID = id
	return t
}
