package authflow

import (
	"errors"
	"path"
	"strings"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/photo"
	"github.com/phillip-england/hospitalsuite/internal/session"
)

// RegistrationProfile is one register submission. Only the fields of the
// selected role are sent.
type RegistrationProfile struct {
	Role     string
	Name     string
	Email    string
	Password string
	Photo    *apiclient.Attachment

	Address string
	Age     string
	Contact string

	Specialization string
	Qualification  string

	StaffQualification string
}

// Form validates p and builds the multipart payload for /api/register.
func (p RegistrationProfile) Form() (*apiclient.Form, error) {
	role := strings.TrimSpace(p.Role)
	name := strings.TrimSpace(p.Name)
	email := strings.TrimSpace(p.Email)
	if role == "" || name == "" || email == "" || p.Password == "" {
		return nil, apiclient.Invalid("Please fill required fields")
	}

	form := apiclient.NewForm().
		Field("role", role).
		Field("name", name).
		Field("email", email).
		Field("password", p.Password)

	if p.Photo != nil && len(p.Photo.Data) > 0 {
		normalized, err := normalizePhoto(p.Photo)
		if err != nil {
			return nil, err
		}
		form.File("photo", normalized)
	}

	switch session.Role(role) {
	case session.RolePatient:
		form.Field("address", p.Address).
			Field("age", p.Age).
			Field("contact", p.Contact)
	case session.RoleDoctor:
		form.Field("specialization", p.Specialization).
			Field("qualification", p.Qualification)
	default:
		form.Field("qualification", p.StaffQualification)
	}
	return form, nil
}

func normalizePhoto(a *apiclient.Attachment) (*apiclient.Attachment, error) {
	data, mime, err := photo.Normalize(a.Data)
	if err != nil {
		if errors.Is(err, photo.ErrUnsupported) {
			return nil, apiclient.Invalid("Photo must be a png, jpeg, or webp image")
		}
		if errors.Is(err, photo.ErrTooLarge) {
			return nil, apiclient.Invalid("Photo must be at most 4096x4096 pixels")
		}
		return nil, apiclient.Invalid("Unable to read photo")
	}
	name := strings.TrimSuffix(a.Filename, path.Ext(a.Filename))
	if name == "" {
		name = "photo"
	}
	return &apiclient.Attachment{Filename: name + ".png", ContentType: mime, Data: data}, nil
}
