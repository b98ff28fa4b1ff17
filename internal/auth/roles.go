package auth

import "strings"

// Canonical role tokens used in every authorization check. Role names stored
// in the database are in Russian; NormalizeRole maps both languages onto this
// set.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// NormalizeRole maps a stored or claimed role name onto the canonical set.
// Matching is a case-insensitive substring check, admin taking priority over
// teacher over student. Unrecognized non-empty input passes through
// lowercased, empty input yields "".
func NormalizeRole(raw string) string {
	r := strings.ToLower(strings.TrimSpace(raw))
	if r == "" {
		return ""
	}
	switch {
	case strings.Contains(r, "админ") || strings.Contains(r, "admin"):
		return RoleAdmin
	case strings.Contains(r, "преподав") || strings.Contains(r, "teacher"):
		return RoleTeacher
	case strings.Contains(r, "студ") || strings.Contains(r, "student"):
		return RoleStudent
	}
	return r
}
