package httpapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendflow/internal/student"
)

func seedStudent(t *testing.T, e *env, s student.Student) student.Student {
	t.Helper()
	saved, err := e.students.Create(context.Background(), s)
	require.NoError(t, err)
	return saved
}

func TestListStudents(t *testing.T) {
	e := newEnv(t)
	seedStudent(t, e, student.Student{Name: "Alice Johnson", Roll: "CS001"})
	seedStudent(t, e, student.Student{Name: "Bob Smith", Roll: "CS002"})

	w := e.do(t, http.MethodGet, "/api/students", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []student.Student
	decode(t, w, &got)
	assert.Len(t, got, 2)
}

func TestListStudentsEmptyIsArray(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/students", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSearchStudentsMatchesNameOrRoll(t *testing.T) {
	e := newEnv(t)
	seedStudent(t, e, student.Student{Name: "Alice Johnson", Roll: "CS001"})
	seedStudent(t, e, student.Student{Name: "Bob Smith", Roll: "CS002"})

	w := e.do(t, http.MethodGet, "/api/students/search?query=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []student.Student
	decode(t, w, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice Johnson", got[0].Name)

	w = e.do(t, http.MethodGet, "/api/students/search?query=cs00", nil)
	decode(t, w, &got)
	assert.Len(t, got, 2)
}

func TestAddStudentAssignsID(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/students", student.Student{
		Name: "Diana Prince", Roll: "CS004", StudentClass: "Grade 10",
		Status: "Absent", ParentPhoneNumber: "+1234567893",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got student.Student
	decode(t, w, &got)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Diana Prince", got.Name)
}

func TestUpdateStudentNullStatusLeavesStatus(t *testing.T) {
	e := newEnv(t)
	s := seedStudent(t, e, student.Student{Name: "Alice", Roll: "CS001", Status: "Present", Time: "08:45 AM"})

	// body without status/time: both stay untouched
	w := e.do(t, http.MethodPut, "/api/students/"+s.ID, map[string]any{
		"name": "Alice J", "roll": "CS001", "studentClass": "Grade 10", "parentPhoneNumber": "+111",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got student.Student
	decode(t, w, &got)
	assert.Equal(t, "Alice J", got.Name)
	assert.Equal(t, "Present", got.Status)
	assert.Equal(t, "08:45 AM", got.Time)
}

func TestUpdateStudentNonNullStatusOverwrites(t *testing.T) {
	e := newEnv(t)
	s := seedStudent(t, e, student.Student{Name: "Alice", Roll: "CS001", Status: "Present", Time: "08:45 AM"})

	w := e.do(t, http.MethodPut, "/api/students/"+s.ID, map[string]any{
		"name": "Alice", "roll": "CS001", "status": "Late", "time": "09:15 AM",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got student.Student
	decode(t, w, &got)
	assert.Equal(t, "Late", got.Status)
	assert.Equal(t, "09:15 AM", got.Time)
}

func TestUpdateStudentUnknownID(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPut, "/api/students/nope", map[string]any{"name": "x"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusOnlyTouchesPair(t *testing.T) {
	e := newEnv(t)
	s := seedStudent(t, e, student.Student{
		Name: "Alice", Roll: "CS001", StudentClass: "Grade 10",
		Status: "Present", Time: "08:45 AM", ParentPhoneNumber: "+111",
	})

	w := e.do(t, http.MethodPut, "/api/students/"+s.ID+"/status", map[string]any{
		"status": "Absent", "time": "-",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got student.Student
	decode(t, w, &got)
	assert.Equal(t, "Absent", got.Status)
	assert.Equal(t, "-", got.Time)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "+111", got.ParentPhoneNumber)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPut, "/api/students/nope/status", map[string]any{"status": "Absent", "time": "-"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotifyParentsQueuesUsablePhonesOnly(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/students/send-sms", []student.Student{
		{Name: "A", Status: "Absent", ParentPhoneNumber: "+111"},
		{Name: "B", Status: "Absent", ParentPhoneNumber: ""},
		{Name: "C", Status: "Absent", ParentPhoneNumber: "UNLINKED"},
		{Name: "D", Status: "Late", ParentPhoneNumber: "+444"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SMS notifications queued for absent students' parents", w.Body.String())

	// only A and D had usable phones; delivery itself happens in the worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, err := e.jobs.Consume(ctx)
	require.NoError(t, err)

	var recipients []string
	for i := 0; i < 2; i++ {
		select {
		case job := <-out:
			recipients = append(recipients, job.Recipient)
		case <-time.After(time.Second):
			t.Fatal("expected 2 queued jobs")
		}
	}
	assert.ElementsMatch(t, []string{"+111", "+444"}, recipients)
	assert.Empty(t, e.sender.sent, "handler must not contact the gateway directly")
}
