package models

import "time"

// EnrollmentStatus represents the review state of an application.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"
	EnrollmentStatusApproved EnrollmentStatus = "approved"
	EnrollmentStatusRejected EnrollmentStatus = "rejected"
)

// Valid reports whether the status is a member of the enum.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusApproved, EnrollmentStatusRejected:
		return true
	}
	return false
}

// Enrollment captures a student's application to a course. The course name
// and level are copied from the catalog at submission time; later catalog
// edits or deletes never touch the snapshot.
type Enrollment struct {
	ID          string           `db:"id" json:"id"`
	StudentName string           `db:"student_name" json:"student_name"`
	Email       string           `db:"email" json:"email"`
	Phone       string           `db:"phone" json:"phone"`
	CourseID    string           `db:"course_id" json:"course_id"`
	CourseName  string           `db:"course_name" json:"course_name"`
	CourseLevel string           `db:"course_level" json:"course_level"`
	Message     string           `db:"message" json:"message,omitempty"`
	Status      EnrollmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// EnrollmentQuery provides sorting, filtering and paging for listings.
type EnrollmentQuery struct {
	Status    EnrollmentStatus
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// EnrollmentCounts aggregates applications by status.
type EnrollmentCounts struct {
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Rejected int `db:"rejected" json:"rejected"`
}

// DashboardStats is the back-office overview snapshot.
type DashboardStats struct {
	Courses     int              `json:"courses"`
	Enrollments EnrollmentCounts `json:"enrollments"`
	GeneratedAt time.Time        `json:"generated_at"`
}
