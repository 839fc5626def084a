package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/views"
)

// Outcome is the feedback for a completed action. Refresh names the list
// that must be reloaded, if any.
type Outcome struct {
	Notice  string
	Refresh views.Kind
}

// Failure is a failed action with its user-facing message resolved.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message + ": " + f.Err.Error()
}

func (f *Failure) UserMessage() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(err error, fallback string) error {
	return &Failure{Message: apiclient.UserMessage(err, fallback), Err: err}
}

func (c *Controller) Approve(ctx context.Context, appointmentID string) (Outcome, error) {
	id := strings.TrimSpace(appointmentID)
	if id == "" {
		return Outcome{}, apiclient.Invalid("Appointment ID required")
	}
	if err := c.api.ApproveAppointment(ctx, c.session.Token, apiclient.ID(id)); err != nil {
		return Outcome{}, fail(err, "Error approving")
	}
	return Outcome{Notice: "Approved", Refresh: views.KindPendingAppointments}, nil
}

func (c *Controller) Book(ctx context.Context, doctorID, appointmentTime string) (Outcome, error) {
	doctorID = strings.TrimSpace(doctorID)
	appointmentTime = strings.TrimSpace(appointmentTime)
	if doctorID == "" || appointmentTime == "" {
		return Outcome{}, apiclient.Invalid("Doctor and appointment time required")
	}
	res, err := c.api.BookAppointment(ctx, c.session.Token, apiclient.BookingRequest{
		DoctorID:        apiclient.ID(doctorID),
		AppointmentTime: appointmentTime,
	})
	if err != nil {
		return Outcome{}, fail(err, "Error")
	}
	return Outcome{Notice: "Appointment requested. Message: " + res.Message}, nil
}

type MessageForm struct {
	DoctorID string
	Content  string
	Image    *apiclient.Attachment
}

func (c *Controller) SendMessage(ctx context.Context, f MessageForm) (Outcome, error) {
	doctorID := strings.TrimSpace(f.DoctorID)
	if doctorID == "" || strings.TrimSpace(f.Content) == "" {
		return Outcome{}, apiclient.Invalid("Doctor ID and message required")
	}
	err := c.api.SendMessage(ctx, c.session.Token, apiclient.MessageRequest{
		DoctorID: doctorID,
		Content:  f.Content,
		Image:    f.Image,
	})
	if err != nil {
		return Outcome{}, fail(err, "Error sending message")
	}
	return Outcome{Notice: "Message sent"}, nil
}

type PrescriptionForm struct {
	PatientID string
	Content   string
	File      *apiclient.Attachment
}

func (c *Controller) Prescribe(ctx context.Context, f PrescriptionForm) (Outcome, error) {
	patientID := strings.TrimSpace(f.PatientID)
	if patientID == "" || strings.TrimSpace(f.Content) == "" {
		return Outcome{}, apiclient.Invalid("Patient ID and content required")
	}
	err := c.api.Prescribe(ctx, c.session.Token, apiclient.PrescriptionRequest{
		PatientID: patientID,
		Content:   f.Content,
		File:      f.File,
	})
	if err != nil {
		return Outcome{}, fail(err, "Error")
	}
	return Outcome{Notice: "Prescription sent"}, nil
}

// Download is a file handed to the browser as an attachment.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// GenerateLetter fetches the appointment letter. The body is the server's
// text, unmodified.
func (c *Controller) GenerateLetter(ctx context.Context, appointmentID string) (Download, error) {
	id := strings.TrimSpace(appointmentID)
	if id == "" {
		return Download{}, apiclient.Invalid("Appointment ID required")
	}
	letter, err := c.api.GenerateLetter(ctx, c.session.Token, apiclient.ID(id))
	if err != nil {
		return Download{}, fail(err, "Error")
	}
	return Download{
		Filename:    fmt.Sprintf("appointment_%s.txt", id),
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(letter.Text),
	}, nil
}
