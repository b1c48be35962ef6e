package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"attendflow/internal/auth"
	"attendflow/internal/httpapi"
	"attendflow/internal/notify"
	"attendflow/internal/queue"
	"attendflow/internal/student"
	"attendflow/internal/user"
)

// memStudents is an in-memory StudentStore mirroring the repository semantics,
// including the COALESCE behavior of partial updates.
type memStudents struct {
	items []student.Student
	next  int
}

func (m *memStudents) List(context.Context) ([]student.Student, error) {
	return append([]student.Student(nil), m.items...), nil
}

func (m *memStudents) Search(_ context.Context, query string) ([]student.Student, error) {
	q := strings.ToLower(query)
	var out []student.Student
	for _, s := range m.items {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Roll), q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStudents) Create(_ context.Context, s student.Student) (student.Student, error) {
	if s.ID == "" {
		m.next++
		s.ID = fmt.Sprintf("s%d", m.next)
	}
	if s.Status == "" {
		s.Status = student.StatusUnknown
	}
	if s.Time == "" {
		s.Time = student.TimeNotRecorded
	}
	m.items = append(m.items, s)
	return s, nil
}

func (m *memStudents) Update(_ context.Context, id string, upd student.Update) (student.Student, error) {
	for i, s := range m.items {
		if s.ID != id {
			continue
		}
		s.Name = upd.Name
		s.Roll = upd.Roll
		s.StudentClass = upd.StudentClass
		s.ParentPhoneNumber = upd.ParentPhoneNumber
		if upd.Status != nil {
			s.Status = *upd.Status
		}
		if upd.Time != nil {
			s.Time = *upd.Time
		}
		m.items[i] = s
		return s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (m *memStudents) UpdateStatus(_ context.Context, id, status, timeLabel string) (student.Student, error) {
	for i, s := range m.items {
		if s.ID != id {
			continue
		}
		s.Status = status
		s.Time = timeLabel
		m.items[i] = s
		return s, nil
	}
	return student.Student{}, student.ErrNotFound
}

// memAccounts is an in-memory user.Accounts.
type memAccounts struct {
	items []user.User
	next  int
}

func (m *memAccounts) List(context.Context) ([]user.User, error) {
	return append([]user.User(nil), m.items...), nil
}

func (m *memAccounts) Create(_ context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		m.next++
		u.ID = fmt.Sprintf("u%d", m.next)
	}
	m.items = append(m.items, u)
	return u, nil
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memAccounts) FindByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range m.items {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memAccounts) FindByID(_ context.Context, id string) (user.User, error) {
	for _, u := range m.items {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	for i, u := range m.items {
		if u.ID == id {
			m.items[i].PasswordHash = hash
			return nil
		}
	}
	return user.ErrNotFound
}

func (m *memAccounts) Delete(_ context.Context, id string) error {
	for i, u := range m.items {
		if u.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return user.ErrNotFound
}

// stubSender records sends and fails for configured recipients.
type stubSender struct {
	sent   []string
	failOn map[string]error
}

func (s *stubSender) Send(_ context.Context, to, body string) error {
	if err, ok := s.failOn[to]; ok {
		return err
	}
	s.sent = append(s.sent, to)
	return nil
}

type stubMailer struct {
	to  []string
	err error
}

func (s *stubMailer) Send(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.to = append(s.to, to)
	return nil
}

type env struct {
	router   *gin.Engine
	students *memStudents
	accounts *memAccounts
	sender   *stubSender
	mailer   *stubMailer
	jobs     *queue.InMemory
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &env{
		students: &memStudents{},
		accounts: &memAccounts{},
		sender:   &stubSender{},
		mailer:   &stubMailer{},
		jobs:     queue.NewInMemory(16),
	}
	tokens := auth.NewTokens("attendflow-test", "test-key")
	svc := user.NewService(e.accounts, e.students, e.sender, e.mailer, tokens, time.Hour, 15*time.Minute, "Test Polytechnic")
	dispatcher := notify.NewDispatcher(e.sender, "Test Polytechnic")

	e.router = gin.New()
	httpapi.New(e.students, svc, dispatcher, e.sender, e.jobs, "Test Polytechnic").Register(e.router)
	return e
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
