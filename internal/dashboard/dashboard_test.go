package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/session"
	"github.com/phillip-england/hospitalsuite/internal/views"
)

type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	token     string
	specialty string
	err       error

	pending []apiclient.PendingAppointment
	letter  apiclient.Letter
	booking apiclient.BookingResult
}

func (f *fakeAPI) record(name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.token = token
}

func (f *fakeAPI) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

func (f *fakeAPI) PatientProfile(_ context.Context, token string) (apiclient.PatientProfile, error) {
	f.record("profile", token)
	return apiclient.PatientProfile{Name: "Ann"}, f.err
}

func (f *fakeAPI) Doctors(_ context.Context, token, specialization string) ([]apiclient.DoctorSummary, error) {
	f.record("doctors", token)
	f.mu.Lock()
	f.specialty = specialization
	f.mu.Unlock()
	return nil, f.err
}

func (f *fakeAPI) Treatments(_ context.Context, token string) ([]apiclient.Treatment, error) {
	f.record("treatments", token)
	return nil, f.err
}

func (f *fakeAPI) Bills(_ context.Context, token string) ([]apiclient.Bill, error) {
	f.record("bills", token)
	amount := 20.5
	return []apiclient.Bill{{ID: "1", Amount: &amount, Details: "x-ray"}}, f.err
}

func (f *fakeAPI) BookAppointment(_ context.Context, token string, _ apiclient.BookingRequest) (apiclient.BookingResult, error) {
	f.record("book", token)
	return f.booking, f.err
}

func (f *fakeAPI) SendMessage(_ context.Context, token string, _ apiclient.MessageRequest) error {
	f.record("message", token)
	return f.err
}

func (f *fakeAPI) PendingAppointments(_ context.Context, token string) ([]apiclient.PendingAppointment, error) {
	f.record("pending", token)
	return f.pending, f.err
}

func (f *fakeAPI) DoctorPatients(_ context.Context, token string) ([]apiclient.AssignedPatient, error) {
	f.record("patients", token)
	return nil, f.err
}

func (f *fakeAPI) ApproveAppointment(_ context.Context, token string, _ apiclient.ID) error {
	f.record("approve", token)
	return f.err
}

func (f *fakeAPI) Prescribe(_ context.Context, token string, _ apiclient.PrescriptionRequest) error {
	f.record("prescribe", token)
	return f.err
}

func (f *fakeAPI) StaffAppointments(_ context.Context, token string) ([]apiclient.StaffAppointment, error) {
	f.record("staff_appointments", token)
	return []apiclient.StaffAppointment{{ID: "42", PatientName: "Ann", DoctorID: "3"}}, f.err
}

func (f *fakeAPI) GenerateLetter(_ context.Context, token string, _ apiclient.ID) (apiclient.Letter, error) {
	f.record("letter", token)
	return f.letter, f.err
}

func TestGate(t *testing.T) {
	cases := []struct {
		s    session.Session
		role session.Role
		ok   bool
	}{
		{session.Session{Token: "t", Role: session.RoleDoctor}, session.RoleDoctor, true},
		{session.Session{Token: "t", Role: session.RolePatient}, session.RoleDoctor, false},
		{session.Session{Role: session.RoleDoctor}, session.RoleDoctor, false},
		{session.Session{}, session.RoleStaff, false},
		{session.Session{Token: "t", Role: "admin"}, session.RoleStaff, false},
	}
	for _, tc := range cases {
		err := Gate(tc.s, tc.role)
		if (err == nil) != tc.ok {
			t.Fatalf("gate(%+v, %s) = %v", tc.s, tc.role, err)
		}
		if err != nil && !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
	}
}

func TestDoctorDashboardWithPatientSessionMakesNoCalls(t *testing.T) {
	api := &fakeAPI{}
	_, err := New(api, session.Session{Token: "t", Role: session.RolePatient}, session.RoleDoctor)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
	if msg := apiclient.UserMessage(err, ""); msg != "Please login as doctor" {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(api.called()) != 0 {
		t.Fatalf("expected no calls, got %v", api.called())
	}
}

func TestInitialLoadsPerRole(t *testing.T) {
	cases := map[session.Role][]string{
		session.RolePatient: {"bills", "doctors", "profile", "treatments"},
		session.RoleDoctor:  {"patients", "pending"},
		session.RoleStaff:   {"staff_appointments"},
	}
	for role, want := range cases {
		api := &fakeAPI{}
		c, err := New(api, session.Session{Token: "tok", Role: role}, role)
		if err != nil {
			t.Fatalf("%s: %v", role, err)
		}
		c.Load(context.Background(), Query{})
		got := api.called()
		if len(got) != len(want) {
			t.Fatalf("%s: expected %v, got %v", role, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: expected %v, got %v", role, want, got)
			}
		}
		if api.token != "tok" {
			t.Fatalf("%s: expected session token to be used", role)
		}
	}
}

func TestPatientLoadForwardsSpecialization(t *testing.T) {
	api := &fakeAPI{}
	c, _ := New(api, session.Session{Token: "tok", Role: session.RolePatient}, session.RolePatient)
	d := c.Load(context.Background(), Query{Specialization: "Cardiology"})
	if api.specialty != "Cardiology" {
		t.Fatalf("expected specialization forwarded, got %q", api.specialty)
	}
	if !d.Doctors.IsEmpty() || d.Doctors.Message != "No doctors found" {
		t.Fatalf("unexpected doctors view %+v", d.Doctors)
	}
	if !d.Profile.IsContent() {
		t.Fatalf("expected profile content, got %+v", d.Profile)
	}
}

func TestLoadErrorsLandInEachList(t *testing.T) {
	api := &fakeAPI{err: &apiclient.APIError{Status: 403, Message: "only doctor"}}
	c, _ := New(api, session.Session{Token: "tok", Role: session.RoleDoctor}, session.RoleDoctor)
	d := c.Load(context.Background(), Query{})
	if !d.PendingAppointments.IsError() || d.PendingAppointments.Message != "only doctor" {
		t.Fatalf("unexpected pending view %+v", d.PendingAppointments)
	}
	if !d.AssignedPatients.IsError() {
		t.Fatalf("unexpected patients view %+v", d.AssignedPatients)
	}
}

func TestApproveRequestsRefreshOnlyOnSuccess(t *testing.T) {
	api := &fakeAPI{}
	c, _ := New(api, session.Session{Token: "tok", Role: session.RoleDoctor}, session.RoleDoctor)

	out, err := c.Approve(context.Background(), "5")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if out.Notice != "Approved" || out.Refresh != views.KindPendingAppointments {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := api.called(); len(got) != 1 || got[0] != "approve" {
		t.Fatalf("expected only the approve call, got %v", got)
	}

	api.err = &apiclient.APIError{Status: 400}
	out, err = c.Approve(context.Background(), "5")
	if err == nil || out.Refresh != "" {
		t.Fatalf("expected failure without refresh, got %+v %v", out, err)
	}
	if msg := apiclient.UserMessage(err, "x"); msg != "Error approving" {
		t.Fatalf("expected action fallback, got %q", msg)
	}
}

func TestBookReportsServerMessage(t *testing.T) {
	api := &fakeAPI{booking: apiclient.BookingResult{Message: "appointment requested"}}
	c, _ := New(api, session.Session{Token: "tok", Role: session.RolePatient}, session.RolePatient)

	if _, err := c.Book(context.Background(), "3", ""); err == nil {
		t.Fatalf("expected validation error for missing time")
	}
	out, err := c.Book(context.Background(), "3", "2025-08-21T10:00:00")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if out.Notice != "Appointment requested. Message: appointment requested" {
		t.Fatalf("unexpected notice %q", out.Notice)
	}
}

func TestPrescribeAndMessageValidateBeforeCalling(t *testing.T) {
	api := &fakeAPI{}
	doctor, _ := New(api, session.Session{Token: "tok", Role: session.RoleDoctor}, session.RoleDoctor)
	patient, _ := New(api, session.Session{Token: "tok", Role: session.RolePatient}, session.RolePatient)

	_, err := doctor.Prescribe(context.Background(), PrescriptionForm{PatientID: "9"})
	if msg := apiclient.UserMessage(err, ""); msg != "Patient ID and content required" {
		t.Fatalf("unexpected message %q", msg)
	}
	if _, err := patient.SendMessage(context.Background(), MessageForm{Content: "hi"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(api.called()) != 0 {
		t.Fatalf("expected no calls, got %v", api.called())
	}

	out, err := doctor.Prescribe(context.Background(), PrescriptionForm{PatientID: "9", Content: "rest"})
	if err != nil || out.Notice != "Prescription sent" || out.Refresh != "" {
		t.Fatalf("unexpected prescribe result %+v %v", out, err)
	}
}

func TestGenerateLetterReturnsExactText(t *testing.T) {
	api := &fakeAPI{letter: apiclient.Letter{Text: "text"}}
	c, _ := New(api, session.Session{Token: "tok", Role: session.RoleStaff}, session.RoleStaff)

	dl, err := c.GenerateLetter(context.Background(), "42")
	if err != nil {
		t.Fatalf("generate letter: %v", err)
	}
	if string(dl.Body) != "text" {
		t.Fatalf("expected exact body, got %q", dl.Body)
	}
	if dl.Filename != "appointment_42.txt" {
		t.Fatalf("unexpected filename %q", dl.Filename)
	}
}

func TestNetworkFailureMessage(t *testing.T) {
	api := &fakeAPI{err: &apiclient.NetworkError{Err: errors.New("refused")}}
	c, _ := New(api, session.Session{Token: "tok", Role: session.RolePatient}, session.RolePatient)
	_, err := c.SendMessage(context.Background(), MessageForm{DoctorID: "3", Content: "hi"})
	if msg := apiclient.UserMessage(err, ""); msg != "Network error" {
		t.Fatalf("expected network message, got %q", msg)
	}
}

func TestExportTables(t *testing.T) {
	api := &fakeAPI{}
	staff, _ := New(api, session.Session{Token: "tok", Role: session.RoleStaff}, session.RoleStaff)
	table, err := staff.AppointmentsTable(context.Background())
	if err != nil {
		t.Fatalf("appointments table: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "42" || table.Rows[0][3] != "Ann" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}

	patient, _ := New(api, session.Session{Token: "tok", Role: session.RolePatient}, session.RolePatient)
	bills, err := patient.BillsTable(context.Background())
	if err != nil {
		t.Fatalf("bills table: %v", err)
	}
	if bills.Rows[0][1] != "20.5" || bills.Rows[0][2] != "No" {
		t.Fatalf("unexpected bill rows %v", bills.Rows)
	}
}
