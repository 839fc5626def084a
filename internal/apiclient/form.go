package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type formPart struct {
	name  string
	value string
	file  *Attachment
}

// Form is an ordered multipart payload.
type Form struct {
	parts []formPart
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Field(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// File adds an attachment; a nil attachment is skipped.
func (f *Form) File(name string, a *Attachment) *Form {
	if a == nil {
		return f
	}
	f.parts = append(f.parts, formPart{name: name, file: a})
	return f
}

// Names lists the part names in the order they will be sent.
func (f *Form) Names() []string {
	names := make([]string, 0, len(f.parts))
	for _, p := range f.parts {
		names = append(names, p.name)
	}
	return names
}

func (f *Form) Value(name string) (string, bool) {
	for _, p := range f.parts {
		if p.name == name && p.file == nil {
			return p.value, true
		}
	}
	return "", false
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, p := range f.parts {
		if p.file == nil {
			if err := writer.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}
		part, err := writer.CreatePart(fileHeader(p.name, p.file))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(p.file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(field string, a *Attachment) textproto.MIMEHeader {
	filename := a.Filename
	if filename == "" {
		filename = field
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	return h
}
