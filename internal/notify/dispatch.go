package notify

import (
	"context"
	"fmt"
	"strings"

	"attendflow/internal/student"
)

// Sender delivers a single text message.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Delivery records one successful send.
type Delivery struct {
	Name  string
	Phone string
}

// Failure records one failed send with the gateway's reason.
type Failure struct {
	Name string
	Err  string
}

// Report aggregates a bulk dispatch run. The invariant
// len(Sent)+len(Failed) == Eligible always holds.
type Report struct {
	Eligible int
	Sent     []Delivery
	Failed   []Failure
}

// Dispatcher sends attendance notifications to parents of absent students.
type Dispatcher struct {
	sender      Sender
	institution string
}

// NewDispatcher creates a dispatcher backed by a sender.
func NewDispatcher(sender Sender, institution string) *Dispatcher {
	return &Dispatcher{sender: sender, institution: institution}
}

// Eligible selects, order-preserving, the students whose status is "Absent"
// (case-insensitive) and whose parent phone is usable: non-blank and not the
// UNLINKED sentinel.
func Eligible(records []student.Student) []student.Student {
	var out []student.Student
	for _, s := range records {
		if !strings.EqualFold(s.Status, student.StatusAbsent) {
			continue
		}
		if !UsablePhone(s.ParentPhoneNumber) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// UsablePhone reports whether a parent phone can be messaged.
func UsablePhone(phone string) bool {
	trimmed := strings.TrimSpace(phone)
	return trimmed != "" && !strings.EqualFold(trimmed, student.PhoneUnlinked)
}

// Dispatch sends one message per eligible student, sequentially. A failed
// delivery never aborts the batch; it is recorded and the loop moves on. When
// no student is eligible the gateway is not contacted at all.
func (d *Dispatcher) Dispatch(ctx context.Context, records []student.Student) Report {
	eligible := Eligible(records)
	rep := Report{Eligible: len(eligible)}
	for _, s := range eligible {
		msg := AttendanceMessage(s.Name, s.Status, d.institution)
		if err := d.sender.Send(ctx, s.ParentPhoneNumber, msg); err != nil {
			rep.Failed = append(rep.Failed, Failure{Name: s.Name, Err: err.Error()})
			continue
		}
		rep.Sent = append(rep.Sent, Delivery{Name: s.Name, Phone: s.ParentPhoneNumber})
	}
	return rep
}

// AttendanceMessage builds the parent notification text.
func AttendanceMessage(studentName, status, institution string) string {
	return fmt.Sprintf("Dear Parent, your ward %s is marked as %s today. For queries, contact the institution. - %s",
		studentName, status, institution)
}
