package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthorizationHeaderOnlyWithToken(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil, nil)
	if _, err := c.Treatments(context.Background(), "abc"); err != nil {
		t.Fatalf("treatments: %v", err)
	}
	if _, err := c.Treatments(context.Background(), ""); err != nil {
		t.Fatalf("treatments: %v", err)
	}
	if got[0] != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", got[0])
	}
	if got[1] != "" {
		t.Fatalf("expected no header without token, got %q", got[1])
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"only doctor"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil, nil).PendingAppointments(context.Background(), "tok")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "only doctor" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if msg := UserMessage(err, "Error"); msg != "only doctor" {
		t.Fatalf("expected server message, got %q", msg)
	}
}

func TestAPIErrorWithoutMessageUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>boom</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil, nil).Bills(context.Background(), "tok")
	if msg := UserMessage(err, "Error"); msg != "Error" {
		t.Fatalf("expected fallback, got %q", msg)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, nil, nil).StaffAppointments(context.Background(), "tok")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if msg := UserMessage(err, "Error"); msg != "Network error" {
		t.Fatalf("expected network message, got %q", msg)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	if msg := UserMessage(Invalid("Email & password required"), "Login failed"); msg != "Email & password required" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestDoctorsSpecializationIsPercentEncoded(t *testing.T) {
	var rawQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQueries = append(rawQueries, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	for _, spec := range []string{"Cardiology", "Heart & Lung", ""} {
		if _, err := c.Doctors(context.Background(), "tok", spec); err != nil {
			t.Fatalf("doctors: %v", err)
		}
	}
	want := []string{"specialization=Cardiology", "specialization=Heart%20%26%20Lung", ""}
	for i := range want {
		if rawQueries[i] != want[i] {
			t.Fatalf("query %d: expected %q, got %q", i, want[i], rawQueries[i])
		}
	}
}

func TestEscapeComponentMatchesEncodeURIComponent(t *testing.T) {
	cases := map[string]string{
		"Heart & Lung":  "Heart%20%26%20Lung",
		"ENT (Adults)!": "ENT%20(Adults)!",
		"it's*":         "it's*",
		"a+b/c":         "a%2Bb%2Fc",
	}
	for in, want := range cases {
		if got := escapeComponent(in); got != want {
			t.Fatalf("escapeComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApproveSendsNumericID(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"message":"approved"}`))
	}))
	defer srv.Close()

	if err := New(srv.URL, nil, nil).ApproveAppointment(context.Background(), "tok", ID("42")); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if v, ok := body["appointment_id"].(float64); !ok || v != 42 {
		t.Fatalf("expected numeric appointment_id, got %#v", body["appointment_id"])
	}
}

func TestPrescribeSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("patient_id") != "9" || r.FormValue("content") != "rest" {
			t.Errorf("unexpected fields %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "rx.txt" || string(data) != "take twice" {
			t.Errorf("unexpected file %q %q", hdr.Filename, data)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"prescribed"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, nil, nil).Prescribe(context.Background(), "tok", PrescriptionRequest{
		PatientID: "9",
		Content:   "rest",
		File:      &Attachment{Filename: "rx.txt", ContentType: "text/plain", Data: []byte("take twice")},
	})
	if err != nil {
		t.Fatalf("prescribe: %v", err)
	}
}

func TestIDAndTextDecoding(t *testing.T) {
	var payload struct {
		A ID   `json:"a"`
		B ID   `json:"b"`
		C ID   `json:"c"`
		D Text `json:"d"`
		E Text `json:"e"`
	}
	if err := json.Unmarshal([]byte(`{"a":7,"b":"x-1","c":null,"d":30,"e":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A != "7" || payload.B != "x-1" || payload.C != "" || payload.D != "30" || payload.E != "" {
		t.Fatalf("unexpected decode %+v", payload)
	}
}

func TestFormNamesPreserveOrderAndSkipNilFiles(t *testing.T) {
	f := NewForm().Field("role", "staff").File("photo", nil).Field("name", "Ann")
	names := f.Names()
	if len(names) != 2 || names[0] != "role" || names[1] != "name" {
		t.Fatalf("unexpected names %v", names)
	}
	if v, ok := f.Value("name"); !ok || v != "Ann" {
		t.Fatalf("unexpected value %q %v", v, ok)
	}
}
