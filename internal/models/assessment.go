package models

import "time"

// Test is a scheduled assessment for a class/batch.
type Test struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Class     string    `json:"class"`
	Batch     string    `json:"batch,omitempty"`
	Date      time.Time `json:"date"`
	MaxMarks  int       `json:"max_marks"`
	Published bool      `json:"published"`
}

// EntityID implements store.Entity.
func (t Test) EntityID() string { return t.ID }

// WithID implements store.Entity.
func (t Test) WithID(id string) Test {
	t.ID = id
	return t
}

// Mark is one student's score on one test.
type Mark struct {
	ID        string `json:"id"`
	TestID    string `json:"test_id"`
	StudentID string `json:"student_id"`
	Score     int    `json:"score"`
	Remarks   string `json:"remarks,omitempty"`
}

// EntityID implements store.Entity.
func (m Mark) EntityID() string { return m.ID }

// WithID implements store.Entity.
func (m Mark) WithID(id string) Mark {
	m.ID = id
	return m
}
