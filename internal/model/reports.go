package model

import "time"

type CourseRosterRow struct {
	StudentID        int64    `json:"student_id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	GroupNumber      string   `json:"group_number"`
	EnrollmentDate   Date     `json:"enrollment_date"`
	FinalGrade       *float64 `json:"final_grade"`
	AssignmentsCount int64    `json:"assignments_count"`
	AverageGrade     *float64 `json:"average_grade"`
}

type PerformanceRow struct {
	StudentID            int64    `json:"student_id"`
	StudentName          string   `json:"student_name"`
	GroupNumber          string   `json:"group_number"`
	AssignmentsCompleted int64    `json:"assignments_completed"`
	AverageGrade         *float64 `json:"average_grade"`
	MinGrade             *float64 `json:"min_grade"`
	MaxGrade             *float64 `json:"max_grade"`
	FinalGrade           *float64 `json:"final_grade"`
	PerformanceLevel     string   `json:"performance_level"`
}

type CourseReportRow struct {
	CourseID         int64    `json:"course_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Duration         int      `json:"duration"`
	TeacherName      string   `json:"teacher_name"`
	Qualification    string   `json:"qualification"`
	EnrolledStudents int64    `json:"enrolled_students"`
	TotalAssignments int64    `json:"total_assignments"`
	AverageGrade     *float64 `json:"average_grade"`
}

type ScheduleReportRow struct {
	ScheduleDate     Date      `json:"schedule_date"`
	CourseTitle      string    `json:"course_title"`
	TeacherName      string    `json:"teacher_name"`
	StartDateTime    time.Time `json:"start_date_time"`
	EndDateTime      time.Time `json:"end_date_time"`
	EnrolledStudents int64     `json:"enrolled_students"`
}

type TranscriptRow struct {
	CourseID         int64    `json:"course_id"`
	CourseTitle      string   `json:"course_title"`
	Description      string   `json:"description"`
	TeacherName      string   `json:"teacher_name"`
	EnrollmentDate   Date     `json:"enrollment_date"`
	FinalGrade       *float64 `json:"final_grade"`
	AssignmentsCount int64    `json:"assignments_count"`
	AverageGrade     *float64 `json:"average_grade"`
	MinGrade         *float64 `json:"min_grade"`
	MaxGrade         *float64 `json:"max_grade"`
}

type TranscriptTotals struct {
	TotalCourses     int64   `json:"total_courses"`
	TotalAssignments int64   `json:"total_assignments"`
	OverallAverage   float64 `json:"overall_average"`
}

type CSVRosterRow struct {
	FirstName      string
	LastName       string
	GroupNumber    string
	EnrollmentDate Date
	FinalGrade     *float64
}
