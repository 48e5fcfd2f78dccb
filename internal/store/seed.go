package store

import "github.com/coachdesk/coachdesk-api/internal/models"

// Seed fixtures adopted when a collection's backing file is absent or
// unreadable. Collections without fixtures start empty.

func seedCourses() []models.Course {
	return []models.Course{
		{
			ID:          "course-foundation-10",
			Name:        "Foundation Batch (Class 10)",
			Description: "Board exam preparation with weekly tests",
			Class:       "10",
			Duration:    "10 months",
			Fee:         24000,
		},
		{
			ID:          "course-neet-12",
			Name:        "NEET Crash Course (Class 12)",
			Description: "Physics, Chemistry and Biology intensive",
			Class:       "12",
			Duration:    "6 months",
			Fee:         45000,
		},
		{
			ID:          "course-jee-11",
			Name:        "JEE Two Year Program (Class 11)",
			Description: "Maths, Physics and Chemistry from fundamentals",
			Class:       "11",
			Duration:    "24 months",
			Fee:         82000,
		},
	}
}

func seedTeachers() []models.Teacher {
	return []models.Teacher{
		{
			ID:       "teacher-anitha",
			Name:     "Anitha Krishnan",
			Email:    "anitha@coachdesk.local",
			Phone:    "9840011223",
			Subjects: []string{"Physics"},
			Classes:  []string{"11", "12"},
		},
		{
			ID:       "teacher-ravi",
			Name:     "Ravi Shankar",
			Email:    "ravi@coachdesk.local",
			Phone:    "9840044556",
			Subjects: []string{"Mathematics"},
			Classes:  []string{"10", "11"},
		},
	}
}

func seedStudents() []models.Student {
	return []models.Student{
		{
			ID:               "student-demo",
			Code:             "STU-DEMO0001",
			RegisterNumber:   "REG001",
			RollNumber:       "10A01",
			Name:             "Demo Student",
			Email:            "demo.student@coachdesk.local",
			Phone:            "9840099887",
			Class:            "10",
			Batch:            "morning",
			Category:         models.StudentCategoryNormal,
			PaymentStatus:    models.PaymentStatusPending,
			EnrollmentStatus: "enrolled",
			PasswordHash:     "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0XhBOT3a/U8K0sV8mYFz1GFwW6a",
			IsFirstLogin:     true,
			Role:             models.RoleStudent,
		},
	}
}
