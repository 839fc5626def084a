package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/login",
		JSON:   map[string]string{"email": email, "password": password},
	}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, form *Form) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/register", Form: form}, nil)
}

func (c *Client) PendingAppointments(ctx context.Context, token string) ([]PendingAppointment, error) {
	return getList[PendingAppointment](ctx, c, token, "/api/doctor/appointments/pending", nil)
}

func (c *Client) ApproveAppointment(ctx context.Context, token string, appointmentID ID) error {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/doctor/appointments/approve",
		JSON:   map[string]ID{"appointment_id": appointmentID},
		Token:  token,
	}, nil)
}

func (c *Client) DoctorPatients(ctx context.Context, token string) ([]AssignedPatient, error) {
	return getList[AssignedPatient](ctx, c, token, "/api/doctor/patients", nil)
}

func (c *Client) Prescribe(ctx context.Context, token string, req PrescriptionRequest) error {
	form := NewForm().
		Field("patient_id", req.PatientID).
		Field("content", req.Content).
		File("file", req.File)
	return c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/doctor/prescribe", Form: form, Token: token}, nil)
}

func (c *Client) PatientProfile(ctx context.Context, token string) (PatientProfile, error) {
	var out PatientProfile
	err := c.Do(ctx, Request{Path: "/api/patient/profile", Token: token}, &out)
	return out, err
}

// Doctors lists doctors, optionally filtered server-side by specialization.
func (c *Client) Doctors(ctx context.Context, token, specialization string) ([]DoctorSummary, error) {
	var query url.Values
	if spec := strings.TrimSpace(specialization); spec != "" {
		query = url.Values{"specialization": {spec}}
	}
	return getList[DoctorSummary](ctx, c, token, "/api/patient/doctors", query)
}

func (c *Client) BookAppointment(ctx context.Context, token string, req BookingRequest) (BookingResult, error) {
	var out BookingResult
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/patient/appointment",
		JSON:   req,
		Token:  token,
	}, &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, token string, req MessageRequest) error {
	form := NewForm().
		Field("doctor_id", req.DoctorID).
		Field("content", req.Content).
		File("image", req.Image)
	return c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/patient/message", Form: form, Token: token}, nil)
}

func (c *Client) Treatments(ctx context.Context, token string) ([]Treatment, error) {
	return getList[Treatment](ctx, c, token, "/api/patient/treatments", nil)
}

func (c *Client) Bills(ctx context.Context, token string) ([]Bill, error) {
	return getList[Bill](ctx, c, token, "/api/patient/bills", nil)
}

func (c *Client) StaffAppointments(ctx context.Context, token string) ([]StaffAppointment, error) {
	return getList[StaffAppointment](ctx, c, token, "/api/staff/appointments", nil)
}

func (c *Client) GenerateLetter(ctx context.Context, token string, appointmentID ID) (Letter, error) {
	var out Letter
	err := c.Do(ctx, Request{
		Path:  "/api/staff/generate_letter/" + url.PathEscape(appointmentID.String()),
		Token: token,
	}, &out)
	return out, err
}

func getList[T any](ctx context.Context, c *Client, token, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.Do(ctx, Request{Path: path, Query: query, Token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
