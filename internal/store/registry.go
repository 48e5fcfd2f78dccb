package store

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
)

// Versioned storage keys, one per entity collection. Schema changes bump the
// version suffix and start from a fresh key instead of migrating old data.
const (
	KeyCourses     = "courses.v1"
	KeyStudents    = "students.v1"
	KeyTeachers    = "teachers.v1"
	KeyEnrollments = "enrollments.v1"
	KeyTests       = "tests.v1"
	KeyMarks       = "marks.v1"
	KeyNotes       = "notes.v1"
	KeyAttendance  = "attendance.v1"
)

// Options configures the store bundle.
type Options struct {
	Logger  *zap.Logger
	Metrics MetricsRecorder
	// Watch enables cross-process adoption of changes made by other processes
	// sharing the same data directory.
	Watch bool
}

// Stores bundles one Collection per entity type. Constructed once per process
// and injected into the services that need it.
type Stores struct {
	Courses     *Collection[models.Course]
	Students    *Collection[models.Student]
	Teachers    *Collection[models.Teacher]
	Enrollments *Collection[models.Enrollment]
	Tests       *Collection[models.Test]
	Marks       *Collection[models.Mark]
	Notes       *Collection[models.Note]
	Attendance  *Collection[models.Attendance]

	watcher *Watcher
}

// Open builds every collection under dataDir and, when enabled, starts the
// cross-process watcher.
func Open(dataDir string, opts Options) (*Stores, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Stores{
		Courses:     NewCollection(dataDir, KeyCourses, seedCourses(), courseDefaults, logger, opts.Metrics),
		Students:    NewCollection(dataDir, KeyStudents, seedStudents(), studentDefaults, logger, opts.Metrics),
		Teachers:    NewCollection(dataDir, KeyTeachers, seedTeachers(), teacherDefaults, logger, opts.Metrics),
		Enrollments: NewCollection(dataDir, KeyEnrollments, nil, enrollmentDefaults, logger, opts.Metrics),
		Tests:       NewCollection(dataDir, KeyTests, nil, testDefaults, logger, opts.Metrics),
		Marks:       NewCollection(dataDir, KeyMarks, nil, markDefaults, logger, opts.Metrics),
		Notes:       NewCollection(dataDir, KeyNotes, nil, noteDefaults, logger, opts.Metrics),
		Attendance:  NewCollection(dataDir, KeyAttendance, nil, attendanceDefaults, logger, opts.Metrics),
	}

	if opts.Watch {
		watcher, err := NewWatcher(dataDir, logger)
		if err != nil {
			return nil, err
		}
		watcher.Register(s.Courses)
		watcher.Register(s.Students)
		watcher.Register(s.Teachers)
		watcher.Register(s.Enrollments)
		watcher.Register(s.Tests)
		watcher.Register(s.Marks)
		watcher.Register(s.Notes)
		watcher.Register(s.Attendance)
		s.watcher = watcher
	}

	return s, nil
}

// Close stops the cross-process watcher when one was started.
func (s *Stores) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func courseDefaults(c models.Course) models.Course {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c
}

func studentDefaults(s models.Student) models.Student {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Code == "" {
		s.Code = models.NewCode("STU")
	}
	if s.Category == "" {
		s.Category = models.StudentCategoryNormal
	}
	if s.PaymentStatus == "" {
		s.PaymentStatus = models.PaymentStatusPending
	}
	if s.EnrollmentStatus == "" {
		s.EnrollmentStatus = "enrolled"
	}
	s.Role = models.RoleStudent
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return s
}

func teacherDefaults(t models.Teacher) models.Teacher {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return t
}

func enrollmentDefaults(e models.Enrollment) models.Enrollment {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Code == "" {
		e.Code = models.NewCode("ENR")
	}
	if e.Status == "" {
		e.Status = models.EnrollmentStatusPending
	}
	if e.PaymentStatus == "" {
		e.PaymentStatus = models.PaymentStatusPending
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	return e
}

func testDefaults(t models.Test) models.Test {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return t
}

func markDefaults(m models.Mark) models.Mark {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return m
}

func noteDefaults(n models.Note) models.Note {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Uploaded.IsZero() {
		n.Uploaded = time.Now().UTC()
	}
	return n
}

func attendanceDefaults(a models.Attendance) models.Attendance {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.AttendancePresent
	}
	return a
}
