package model

import "time"

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	RoleID               int64     `json:"role_id"`
	RegistrationDateTime time.Time `json:"registration_date_time"`
	PhotoURL             *string   `json:"photo_url"`
}

type UserWithRole struct {
	User
	Role Role `json:"role"`
}

type Teacher struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Qualification string  `json:"qualification"`
	Bio           *string `json:"bio"`
}

type TeacherWithUser struct {
	Teacher
	User *User `json:"user"`
}

type Student struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	GroupNumber string `json:"group_number"`
}

type StudentWithUser struct {
	Student
	User *User `json:"user"`
}

type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	TeacherID   int64  `json:"teacher_id"`
}

type CourseWithTeacher struct {
	Course
	Teacher Teacher `json:"teacher"`
}

// Enrollment links one student to one course. The (student, course) pair is
// unique; Grade is the final course grade, distinct from assignment Grades.
type Enrollment struct {
	StudentID      int64    `json:"student_id"`
	CourseID       int64    `json:"course_id"`
	EnrollmentDate Date     `json:"enrollment_date"`
	Grade          *float64 `json:"grade"`
}

type EnrollmentWithDetails struct {
	Enrollment
	Student Student `json:"student"`
	Course  Course  `json:"course"`
}

type Grade struct {
	ID              int64   `json:"id"`
	StudentID       int64   `json:"student_id"`
	CourseID        int64   `json:"course_id"`
	AssignmentTitle string  `json:"assignment_title"`
	GradeValue      float64 `json:"grade_value"`
	SubmissionDate  Date    `json:"submission_date"`
}

type GradeWithDetails struct {
	Grade
	Student Student `json:"student"`
	Course  Course  `json:"course"`
}

type ScheduleEntry struct {
	ID            int64     `json:"id"`
	CourseID      int64     `json:"course_id"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
}

type ScheduleEntryWithCourse struct {
	ScheduleEntry
	Course ScheduleCourse `json:"course"`
}

type ScheduleCourse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Duration    int             `json:"duration"`
	Teacher     ScheduleTeacher `json:"teacher"`
}

type ScheduleTeacher struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CourseStatistics struct {
	CourseID         int64   `json:"course_id"`
	TotalStudents    int64   `json:"total_students"`
	TotalAssignments int64   `json:"total_assignments"`
	AverageGrade     float64 `json:"average_grade"`
	MinGrade         float64 `json:"min_grade"`
	MaxGrade         float64 `json:"max_grade"`
}
