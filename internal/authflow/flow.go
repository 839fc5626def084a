package authflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/session"
)

const (
	LoginPath            = "/login"
	PatientDashboardPath = "/patient_dashboard"
	DoctorDashboardPath  = "/doctor_dashboard"
	StaffDashboardPath   = "/staff_dashboard"

	LoginFailedMessage        = "Login failed"
	RegistrationFailedMessage = "Registration failed"
	RegisteredMessage         = "Registration successful — please login"
)

var errMissingToken = errors.New("login response missing token or role")

type API interface {
	Login(ctx context.Context, email, password string) (apiclient.LoginResult, error)
	Register(ctx context.Context, form *apiclient.Form) error
}

// Credentials exist only for the duration of one login submission. Role is
// the form selection; the API decides the session role.
type Credentials struct {
	Email    string
	Password string
	Role     string
}

type Flow struct {
	api   API
	store session.Store
}

func New(api API, store session.Store) *Flow {
	return &Flow{api: api, store: store}
}

// Login authenticates c, saves the session under sessionID and returns the
// dashboard path for the session's role. On failure the store is untouched.
func (f *Flow) Login(ctx context.Context, sessionID string, c Credentials) (string, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" || c.Password == "" {
		return "", apiclient.Invalid("Email & password required")
	}

	res, err := f.api.Login(ctx, email, c.Password)
	if err != nil {
		return "", err
	}
	if res.Token == "" || res.Role == "" {
		return "", errMissingToken
	}

	s := session.Session{Token: res.Token, Role: session.Role(res.Role), UserID: res.UserID.String()}
	if err := f.store.Save(ctx, sessionID, s); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return Destination(res.Role), nil
}

func (f *Flow) Register(ctx context.Context, p RegistrationProfile) error {
	form, err := p.Form()
	if err != nil {
		return err
	}
	return f.api.Register(ctx, form)
}

func (f *Flow) Logout(ctx context.Context, sessionID string) error {
	return f.store.Clear(ctx, sessionID)
}

func Destination(role string) string {
	switch session.Role(role) {
	case session.RolePatient:
		return PatientDashboardPath
	case session.RoleDoctor:
		return DoctorDashboardPath
	default:
		return StaffDashboardPath
	}
}

// SectionVisibility says which role-specific registration sections are shown.
type SectionVisibility struct {
	Patient bool
	Doctor  bool
	Staff   bool
}

func Sections(role string) SectionVisibility {
	r := session.Role(role)
	return SectionVisibility{
		Patient: r == session.RolePatient,
		Doctor:  r == session.RoleDoctor,
		Staff:   r == session.RoleStaff,
	}
}
