package session

import (
	"context"
	"errors"
	"strings"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleStaff   Role = "staff"
)

var ErrIncompleteSession = errors.New("session requires both token and role")

// Session is the client's record of an authenticated identity. The zero
// value is an anonymous session.
type Session struct {
	Token  string
	Role   Role
	UserID string
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != ""
}

func (s Session) validate() error {
	if (strings.TrimSpace(s.Token) == "") != (strings.TrimSpace(string(s.Role)) == "") {
		return ErrIncompleteSession
	}
	return nil
}

// Store persists sessions by opaque id. Read of an unknown id returns the
// zero Session and no error.
type Store interface {
	Save(ctx context.Context, id string, s Session) error
	Read(ctx context.Context, id string) (Session, error)
	Clear(ctx context.Context, id string) error
}

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RolePatient:
		return RolePatient, true
	case RoleDoctor:
		return RoleDoctor, true
	case RoleStaff:
		return RoleStaff, true
	default:
		return "", false
	}
}
