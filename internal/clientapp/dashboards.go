package clientapp

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/authflow"
	"github.com/phillip-england/hospitalsuite/internal/dashboard"
	"github.com/phillip-england/hospitalsuite/internal/export"
	"github.com/phillip-england/hospitalsuite/internal/middleware"
	"github.com/phillip-england/hospitalsuite/internal/session"
)

func userMessage(err error, fallback string) string {
	return apiclient.UserMessage(err, fallback)
}

// controllerFor gates the request on role. On failure it redirects to the
// login page and returns nil.
func (s *server) controllerFor(w http.ResponseWriter, r *http.Request, role session.Role) *dashboard.Controller {
	_, sess := s.currentSession(r)
	c, err := dashboard.New(s.api, sess, role)
	if err != nil {
		redirectWithError(w, r, authflow.LoginPath, userMessage(err, "Please login"))
		return nil
	}
	return c
}

func (s *server) dashboardPage(w http.ResponseWriter, r *http.Request, role session.Role, tmpl *template.Template) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := s.controllerFor(w, r, role)
	if c == nil {
		return
	}

	q := dashboard.Query{}
	if role == session.RolePatient {
		q.Specialization = strings.TrimSpace(r.URL.Query().Get("specialization"))
	}

	data := newPageData(r)
	data.Role = string(role)
	data.Dashboard = c.Load(r.Context(), q)
	s.render(w, r, tmpl, data)
}

func (s *server) patientDashboard(w http.ResponseWriter, r *http.Request) {
	s.dashboardPage(w, r, session.RolePatient, s.patientTmpl)
}

func (s *server) doctorDashboard(w http.ResponseWriter, r *http.Request) {
	s.dashboardPage(w, r, session.RoleDoctor, s.doctorTmpl)
}

func (s *server) staffDashboard(w http.ResponseWriter, r *http.Request) {
	s.dashboardPage(w, r, session.RoleStaff, s.staffTmpl)
}

// finishAction redirects back to the dashboard. The dashboard GET that
// follows is the refresh.
func (s *server) finishAction(w http.ResponseWriter, r *http.Request, back string, out dashboard.Outcome, err error) {
	if err != nil {
		s.logActionFailure(r, err)
		redirectWithError(w, r, back, userMessage(err, "Error"))
		return
	}
	redirectWithMessage(w, r, back, out.Notice)
}

func (s *server) logActionFailure(r *http.Request, err error) {
	var invalid *apiclient.ValidationError
	if errors.As(err, &invalid) {
		return
	}
	s.logger.Warn("dashboard action failed",
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
}

func (s *server) bookAppointment(w http.ResponseWriter, r *http.Request) {
	c := s.controllerFor(w, r, session.RolePatient)
	if c == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, authflow.PatientDashboardPath, "Invalid form submission")
		return
	}
	out, err := c.Book(r.Context(), r.PathValue("id"), r.FormValue("appointment_time"))
	s.finishAction(w, r, authflow.PatientDashboardPath, out, err)
}

func (s *server) sendMessage(w http.ResponseWriter, r *http.Request) {
	c := s.controllerFor(w, r, session.RolePatient)
	if c == nil {
		return
	}
	if err := parseUpload(r); err != nil {
		redirectWithError(w, r, authflow.PatientDashboardPath, "Invalid form submission")
		return
	}
	image, err := readAttachment(r, "image")
	if err != nil {
		s.finishAction(w, r, authflow.PatientDashboardPath, dashboard.Outcome{}, err)
		return
	}
	out, err := c.SendMessage(r.Context(), dashboard.MessageForm{
		DoctorID: r.FormValue("doctor_id"),
		Content:  r.FormValue("content"),
		Image:    image,
	})
	s.finishAction(w, r, authflow.PatientDashboardPath, out, err)
}

func (s *server) approveAppointment(w http.ResponseWriter, r *http.Request) {
	c := s.controllerFor(w, r, session.RoleDoctor)
	if c == nil {
		return
	}
	out, err := c.Approve(r.Context(), r.PathValue("id"))
	s.finishAction(w, r, authflow.DoctorDashboardPath, out, err)
}

func (s *server) prescribe(w http.ResponseWriter, r *http.Request) {
	c := s.controllerFor(w, r, session.RoleDoctor)
	if c == nil {
		return
	}
	if err := parseUpload(r); err != nil {
		redirectWithError(w, r, authflow.DoctorDashboardPath, "Invalid form submission")
		return
	}
	file, err := readAttachment(r, "file")
	if err != nil {
		s.finishAction(w, r, authflow.DoctorDashboardPath, dashboard.Outcome{}, err)
		return
	}
	out, err := c.Prescribe(r.Context(), dashboard.PrescriptionForm{
		PatientID: r.FormValue("patient_id"),
		Content:   r.FormValue("content"),
		File:      file,
	})
	s.finishAction(w, r, authflow.DoctorDashboardPath, out, err)
}

func (s *server) letterDownload(w http.ResponseWriter, r *http.Request) {
	c := s.controllerFor(w, r, session.RoleStaff)
	if c == nil {
		return
	}
	dl, err := c.GenerateLetter(r.Context(), r.PathValue("id"))
	if err != nil {
		s.finishAction(w, r, authflow.StaffDashboardPath, dashboard.Outcome{}, err)
		return
	}
	writeDownload(w, dl.Filename, dl.ContentType, dl.Body)
}

func (s *server) appointmentsExport(w http.ResponseWriter, r *http.Request) {
	c := s.controllerFor(w, r, session.RoleStaff)
	if c == nil {
		return
	}
	s.exportTable(w, r, authflow.StaffDashboardPath, "appointments.xlsx", c.AppointmentsTable)
}

func (s *server) billsExport(w http.ResponseWriter, r *http.Request) {
	c := s.controllerFor(w, r, session.RolePatient)
	if c == nil {
		return
	}
	s.exportTable(w, r, authflow.PatientDashboardPath, "bills.xlsx", c.BillsTable)
}

func (s *server) exportTable(w http.ResponseWriter, r *http.Request, back, filename string, load func(context.Context) (export.Table, error)) {
	table, err := load(r.Context())
	if err != nil {
		s.finishAction(w, r, back, dashboard.Outcome{}, err)
		return
	}
	body, err := export.Workbook(table)
	if err != nil {
		s.logger.Error("workbook build failed", "error", err)
		redirectWithError(w, r, back, "Unable to build spreadsheet")
		return
	}
	writeDownload(w, filename, export.ContentType, body)
}
