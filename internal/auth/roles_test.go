package auth

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := map[string]string{
		"Администратор":     "admin",
		"админ":             "admin",
		"ADMIN":             "admin",
		"administrator":     "admin",
		"Преподаватель":     "teacher",
		"Senior Teacher":    "teacher",
		"Студент":           "student",
		"student":           "student",
		"заочный студент":   "student",
		"guest":             "guest",
		"Внешний Аудитор":   "внешний аудитор",
		"  teacher  ":       "teacher",
		"Старший Админ":     "admin",
		"":                  "",
	}
	for input, expect := range cases {
		if got := NormalizeRole(input); got != expect {
			t.Fatalf("NormalizeRole(%q) = %q, expected %q", input, got, expect)
		}
	}
}

func TestNormalizeRolePriority(t *testing.T) {
	// Admin wins over teacher/student when markers overlap.
	if got := NormalizeRole("админ-преподаватель"); got != RoleAdmin {
		t.Fatalf("expected admin priority, got %q", got)
	}
	if got := NormalizeRole("teacher of students"); got != RoleTeacher {
		t.Fatalf("expected teacher priority, got %q", got)
	}
}

func TestNormalizeRoleIdempotent(t *testing.T) {
	inputs := []string{"Администратор", "Преподаватель", "Студент", "admin", "guest", "Внешний Аудитор"}
	for _, input := range inputs {
		once := NormalizeRole(input)
		if twice := NormalizeRole(once); twice != once {
			t.Fatalf("NormalizeRole not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
