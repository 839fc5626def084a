package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is an identifier the API may send as a JSON number or string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON sends integer ids as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

// Text holds any scalar JSON value as display text. null decodes to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(b)
	}
	return nil
}

type LoginResult struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID ID     `json:"user_id"`
}

type PendingAppointment struct {
	ID              ID     `json:"id"`
	PatientID       ID     `json:"patient_id"`
	AppointmentTime string `json:"appointment_time"`
	Status          string `json:"status"`
}

type AssignedPatient struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Photo   string `json:"photo"`
}

type PatientProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Age     Text   `json:"age"`
	Gender  string `json:"gender"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

type DoctorSummary struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Photo          string `json:"photo"`
	Specialization string `json:"specialization"`
	Qualification  string `json:"qualification"`
}

type BookingRequest struct {
	DoctorID        ID     `json:"doctor_id"`
	AppointmentTime string `json:"appointment_time"`
}

type BookingResult struct {
	Message string `json:"message"`
}

type Treatment struct {
	DoctorID     ID     `json:"doctor_id"`
	StartDate    string `json:"start_date"`
	DaysEstimate Text   `json:"days_estimate"`
	Status       string `json:"status"`
	Medicines    string `json:"medicines"`
}

type Bill struct {
	ID        ID       `json:"id"`
	Amount    *float64 `json:"amount"`
	Paid      bool     `json:"paid"`
	Details   string   `json:"details"`
	CreatedAt string   `json:"created_at"`
}

type StaffAppointment struct {
	ID              ID     `json:"id"`
	Status          string `json:"status"`
	PatientID       ID     `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	DoctorID        ID     `json:"doctor_id"`
	DoctorName      string `json:"doctor_name"`
	AppointmentTime string `json:"appointment_time"`
}

type Letter struct {
	Text string `json:"letter"`
}

type PrescriptionRequest struct {
	PatientID string
	Content   string
	File      *Attachment
}

type MessageRequest struct {
	DoctorID string
	Content  string
	Image    *Attachment
}
