// Package seed loads the default records the original deployment shipped with:
// a handful of students and the administrative accounts.
package seed

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"attendflow/internal/student"
	"attendflow/internal/user"
)

// Run inserts default students and staff accounts when the respective tables
// are empty. It is safe to call on every start.
func Run(ctx context.Context, students *student.Repository, users *user.Repository) error {
	n, err := students.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count students: %w", err)
	}
	if n == 0 {
		defaults := []student.Student{
			{Name: "Alice Johnson", Roll: "CS001", StudentClass: "Grade 10", Status: student.StatusPresent, Time: "08:45 AM", ParentPhoneNumber: "+1234567890"},
			{Name: "Bob Smith", Roll: "CS002", StudentClass: "Grade 10", Status: student.StatusPresent, Time: "08:50 AM", ParentPhoneNumber: "+1234567891"},
			{Name: "Charlie Brown", Roll: "CS003", StudentClass: "Grade 10", Status: student.StatusLate, Time: "09:15 AM", ParentPhoneNumber: "+1234567892"},
			{Name: "Diana Prince", Roll: "CS004", StudentClass: "Grade 10", Status: student.StatusAbsent, Time: student.TimeNotRecorded, ParentPhoneNumber: "+1234567893"},
			{Name: "Ethan Hunt", Roll: "CS005", StudentClass: "Grade 10", Status: student.StatusPresent, Time: "08:40 AM", ParentPhoneNumber: "+1234567894"},
		}
		for _, s := range defaults {
			if _, err := students.Create(ctx, s); err != nil {
				return fmt.Errorf("seed: insert student %s: %w", s.Roll, err)
			}
		}
		log.Printf("seeded %d default students", len(defaults))
	}

	n, err = users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if n == 0 {
		staff := []struct {
			username, password, email string
			role                      user.Role
		}{
			{"admin", "admin123", "admin@sgpb.edu.in", user.RoleAdmin},
			{"teacher", "teacher123", "teacher@sgpb.edu.in", user.RoleTeacher},
			{"hod", "hod123", "hod@sgpb.edu.in", user.RoleHOD},
		}
		for _, st := range staff {
			hash, err := bcrypt.GenerateFromPassword([]byte(st.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("seed: hash password for %s: %w", st.username, err)
			}
			_, err = users.Create(ctx, user.User{
				Username:     st.username,
				PasswordHash: string(hash),
				Email:        st.email,
				Role:         st.role,
			})
			if err != nil {
				return fmt.Errorf("seed: insert user %s: %w", st.username, err)
			}
		}
		log.Printf("seeded %d default administrative accounts", len(staff))
	}

	return nil
}
