package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/session"
	"github.com/phillip-england/hospitalsuite/internal/views"
)

var ErrAccessDenied = errors.New("access denied")

// AccessError is a failed role gate.
type AccessError struct {
	Expected session.Role
}

func (e *AccessError) Error() string {
	return "access denied: dashboard requires role " + string(e.Expected)
}

func (e *AccessError) UserMessage() string {
	return "Please login as " + string(e.Expected)
}

func (e *AccessError) Is(target error) bool {
	return target == ErrAccessDenied
}

// Gate passes iff the session carries a token and exactly the expected role.
func Gate(s session.Session, expected session.Role) error {
	if s.Token == "" || s.Role != expected {
		return &AccessError{Expected: expected}
	}
	return nil
}

type API interface {
	PatientProfile(ctx context.Context, token string) (apiclient.PatientProfile, error)
	Doctors(ctx context.Context, token, specialization string) ([]apiclient.DoctorSummary, error)
	Treatments(ctx context.Context, token string) ([]apiclient.Treatment, error)
	Bills(ctx context.Context, token string) ([]apiclient.Bill, error)
	BookAppointment(ctx context.Context, token string, req apiclient.BookingRequest) (apiclient.BookingResult, error)
	SendMessage(ctx context.Context, token string, req apiclient.MessageRequest) error

	PendingAppointments(ctx context.Context, token string) ([]apiclient.PendingAppointment, error)
	DoctorPatients(ctx context.Context, token string) ([]apiclient.AssignedPatient, error)
	ApproveAppointment(ctx context.Context, token string, appointmentID apiclient.ID) error
	Prescribe(ctx context.Context, token string, req apiclient.PrescriptionRequest) error

	StaffAppointments(ctx context.Context, token string) ([]apiclient.StaffAppointment, error)
	GenerateLetter(ctx context.Context, token string, appointmentID apiclient.ID) (apiclient.Letter, error)
}

// Controller serves one dashboard for one session. It only exists for a
// session that passed the role gate.
type Controller struct {
	api     API
	session session.Session
}

func New(api API, s session.Session, expected session.Role) (*Controller, error) {
	if err := Gate(s, expected); err != nil {
		return nil, err
	}
	return &Controller{api: api, session: s}, nil
}

type Query struct {
	Specialization string
}

type Dashboard struct {
	Role           session.Role
	Specialization string

	Profile    views.ListView
	Doctors    views.ListView
	Treatments views.ListView
	Bills      views.ListView

	PendingAppointments views.ListView
	AssignedPatients    views.ListView

	StaffAppointments views.ListView
}

// Load runs the dashboard's initial loads concurrently. Each load fills its
// own slot; completion order is undefined.
func (c *Controller) Load(ctx context.Context, q Query) Dashboard {
	d := Dashboard{Role: c.session.Role, Specialization: q.Specialization}
	token := c.session.Token

	var loads []func()
	switch c.session.Role {
	case session.RolePatient:
		loads = []func(){
			func() { d.Profile = views.Profile(c.api.PatientProfile(ctx, token)) },
			func() { d.Doctors = views.Doctors(c.api.Doctors(ctx, token, q.Specialization)) },
			func() { d.Treatments = views.Treatments(c.api.Treatments(ctx, token)) },
			func() { d.Bills = views.Bills(c.api.Bills(ctx, token)) },
		}
	case session.RoleDoctor:
		loads = []func(){
			func() { d.PendingAppointments = views.PendingAppointments(c.api.PendingAppointments(ctx, token)) },
			func() { d.AssignedPatients = views.AssignedPatients(c.api.DoctorPatients(ctx, token)) },
		}
	case session.RoleStaff:
		loads = []func(){
			func() { d.StaffAppointments = views.StaffAppointments(c.api.StaffAppointments(ctx, token)) },
		}
	}

	var wg sync.WaitGroup
	for _, load := range loads {
		wg.Add(1)
		go func(load func()) {
			defer wg.Done()
			load()
		}(load)
	}
	wg.Wait()
	return d
}
