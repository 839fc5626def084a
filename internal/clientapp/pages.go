package clientapp

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"

	"github.com/phillip-england/hospitalsuite/internal/authflow"
	"github.com/phillip-england/hospitalsuite/internal/dashboard"
	"github.com/phillip-england/hospitalsuite/internal/session"
	"github.com/phillip-england/hospitalsuite/internal/views"
)

type pageData struct {
	Error     string
	Message   string
	CSRFField template.HTML

	Role     string
	Sections authflow.SectionVisibility

	Dashboard dashboard.Dashboard
}

// listArgs is what the shared "list" template receives.
type listArgs struct {
	View      views.ListView
	CSRFField template.HTML
}

var templateFuncs = template.FuncMap{
	"list": func(v views.ListView, csrfField template.HTML) listArgs {
		return listArgs{View: v, CSRFField: csrfField}
	},
	"actionPath": actionPath,
}

func actionPath(a views.Action) string {
	id := url.PathEscape(a.TargetID)
	switch a.Kind {
	case views.ActionApprove:
		return authflow.DoctorDashboardPath + "/appointments/" + id + "/approve"
	case views.ActionBook:
		return authflow.PatientDashboardPath + "/doctors/" + id + "/book"
	case views.ActionGenerateLetter:
		return authflow.StaffDashboardPath + "/appointments/" + id + "/letter"
	default:
		return ""
	}
}

func newPageData(r *http.Request) pageData {
	q := r.URL.Query()
	return pageData{
		Error:     q.Get("error"),
		Message:   q.Get("message"),
		CSRFField: csrf.TemplateField(r),
	}
}

func (s *server) loginRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, s.loginTmpl, newPageData(r))
	case http.MethodPost:
		s.login(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, authflow.LoginPath, "Invalid form submission")
		return
	}

	oldID, _ := session.IDFromRequest(r)
	id := session.NewID()
	dest, err := s.flow.Login(r.Context(), id, authflow.Credentials{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	})
	if err != nil {
		redirectWithError(w, r, authflow.LoginPath, userMessage(err, authflow.LoginFailedMessage))
		return
	}
	if oldID != "" {
		_ = s.flow.Logout(r.Context(), oldID)
	}
	session.SetCookie(w, id, s.secureCookies)
	http.Redirect(w, r, dest, http.StatusFound)
}

func (s *server) registerRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data := newPageData(r)
		role, ok := session.ParseRole(r.URL.Query().Get("role"))
		if !ok {
			role = session.RolePatient
		}
		data.Role = string(role)
		data.Sections = authflow.Sections(data.Role)
		s.render(w, r, s.registerTmpl, data)
	case http.MethodPost:
		s.register(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	if err := parseUpload(r); err != nil {
		redirectWithError(w, r, "/register", "Invalid form submission")
		return
	}
	role := r.FormValue("role")
	back := "/register"
	if parsed, ok := session.ParseRole(role); ok {
		back += "?role=" + string(parsed) + "&"
	} else {
		back += "?"
	}

	photo, err := readAttachment(r, "photo")
	if err != nil {
		http.Redirect(w, r, back+"error="+url.QueryEscape(userMessage(err, "Unable to read photo")), http.StatusFound)
		return
	}

	err = s.flow.Register(r.Context(), authflow.RegistrationProfile{
		Role:               role,
		Name:               r.FormValue("name"),
		Email:              r.FormValue("email"),
		Password:           r.FormValue("password"),
		Photo:              photo,
		Address:            r.FormValue("address"),
		Age:                r.FormValue("age"),
		Contact:            r.FormValue("contact"),
		Specialization:     r.FormValue("specialization"),
		Qualification:      r.FormValue("qualification"),
		StaffQualification: r.FormValue("staff_qualification"),
	})
	if err != nil {
		http.Redirect(w, r, back+"error="+url.QueryEscape(userMessage(err, authflow.RegistrationFailedMessage)), http.StatusFound)
		return
	}
	redirectWithMessage(w, r, authflow.LoginPath, authflow.RegisteredMessage)
}

func (s *server) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if id, ok := session.IDFromRequest(r); ok {
		if err := s.flow.Logout(r.Context(), id); err != nil {
			s.logger.Error("session clear failed", "error", err)
		}
	}
	session.ExpireCookie(w, s.secureCookies)
	http.Redirect(w, r, authflow.LoginPath, http.StatusFound)
}
