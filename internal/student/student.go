package student

// Attendance status values. Status is stored as free text for compatibility
// with the original API; these are the values the frontends write.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
	StatusUnknown = "Unknown"
)

// TimeNotRecorded is the sentinel stored before any attendance event.
const TimeNotRecorded = "-"

// PhoneUnlinked marks a student without a registered parent contact.
const PhoneUnlinked = "UNLINKED"

// Student is a tracked student record. Time is free text ("08:45 AM"), not a
// timestamp, matching the wire format of the original system.
type Student struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Roll              string `json:"roll"`
	StudentClass      string `json:"studentClass"`
	Status            string `json:"status"`
	Time              string `json:"time"`
	ParentPhoneNumber string `json:"parentPhoneNumber"`
}

// Update carries a full-record overwrite. Status and Time are pointers: nil
// means "leave the stored value unchanged".
type Update struct {
	Name              string
	Roll              string
	StudentClass      string
	ParentPhoneNumber string
	Status            *string
	Time              *string
}
