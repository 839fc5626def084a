package clientapp

import (
	"bytes"
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phillip-england/hospitalsuite/internal/apiclient"
	"github.com/phillip-england/hospitalsuite/internal/applog"
	"github.com/phillip-england/hospitalsuite/internal/authflow"
	"github.com/phillip-england/hospitalsuite/internal/envutil"
	"github.com/phillip-england/hospitalsuite/internal/middleware"
	"github.com/phillip-england/hospitalsuite/internal/session"
)

const (
	maxUploadBytes = 16 << 20
	csrfKeyBytes   = 32
)

type Config struct {
	Addr         string
	APIBaseURL   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	CSRFKey       string
	SecureCookies bool
}

//go:embed templates/partials.html templates/login.html templates/register.html templates/patient.html templates/doctor.html templates/staff.html assets/app.css
var templatesFS embed.FS

// readyCheck is a named dependency probe for /readyz.
type readyCheck struct {
	name  string
	check func(context.Context) error
}

type server struct {
	api           *apiclient.Client
	store         session.Store
	flow          *authflow.Flow
	logger        *slog.Logger
	secureCookies bool
	readyChecks   []readyCheck

	loginTmpl    *template.Template
	registerTmpl *template.Template
	patientTmpl  *template.Template
	doctorTmpl   *template.Template
	staffTmpl    *template.Template
}

func DefaultConfigFromEnv() Config {
	return Config{
		Addr:          envutil.OrDefault("CLIENT_ADDR", ":3000"),
		APIBaseURL:    envutil.OrDefault("API_BASE_URL", "http://localhost:8080"),
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  30 * time.Second,
		RedisAddr:     envutil.OrDefault("REDIS_ADDR", ""),
		RedisPassword: envutil.OrDefault("REDIS_PASSWORD", ""),
		RedisDB:       envutil.IntOrDefault("REDIS_DB", 0),
		SessionTTL:    envutil.DurationOrDefault("SESSION_TTL", 12*time.Hour),
		CSRFKey:       envutil.OrDefault("CSRF_KEY", ""),
		SecureCookies: envutil.BoolOrDefault("SECURE_COOKIES", false),
	}
}

func newCSRFKeyBytes() ([]byte, error) {
	b := make([]byte, csrfKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return b, nil
}

// NewCSRFKey returns a fresh hex-encoded key suitable for CSRF_KEY.
func NewCSRFKey() (string, error) {
	b, err := newCSRFKeyBytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func decodeCSRFKey(raw string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("CSRF_KEY must be hex: %w", err)
	}
	if len(key) != csrfKeyBytes {
		return nil, fmt.Errorf("CSRF_KEY must be %d bytes, got %d", csrfKeyBytes, len(key))
	}
	return key, nil
}

func newServer(cfg Config, store session.Store, logger *slog.Logger) *server {
	api := apiclient.New(cfg.APIBaseURL, nil, logger)
	return &server{
		api:           api,
		store:         store,
		flow:          authflow.New(api, store),
		logger:        logger,
		secureCookies: cfg.SecureCookies,
		loginTmpl:     parsePage("login.html"),
		registerTmpl:  parsePage("register.html"),
		patientTmpl:   parsePage("patient.html"),
		doctorTmpl:    parsePage("doctor.html"),
		staffTmpl:     parsePage("staff.html"),
	}
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).ParseFS(templatesFS, "templates/"+name, "templates/partials.html"))
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.loginRoute)
	mux.HandleFunc("/login", s.loginRoute)
	mux.HandleFunc("/register", s.registerRoute)
	mux.HandleFunc("/logout", s.logout)
	mux.HandleFunc("/assets/app.css", s.appCSSFile)
	mux.HandleFunc("/healthz", s.healthz)
	mux.HandleFunc("/readyz", s.readyz)

	mux.HandleFunc("/patient_dashboard", s.patientDashboard)
	mux.HandleFunc("POST /patient_dashboard/doctors/{id}/book", s.bookAppointment)
	mux.HandleFunc("POST /patient_dashboard/messages", s.sendMessage)
	mux.HandleFunc("GET /patient_dashboard/bills.xlsx", s.billsExport)

	mux.HandleFunc("/doctor_dashboard", s.doctorDashboard)
	mux.HandleFunc("POST /doctor_dashboard/appointments/{id}/approve", s.approveAppointment)
	mux.HandleFunc("POST /doctor_dashboard/prescriptions", s.prescribe)

	mux.HandleFunc("/staff_dashboard", s.staffDashboard)
	mux.HandleFunc("GET /staff_dashboard/appointments/{id}/letter", s.letterDownload)
	mux.HandleFunc("GET /staff_dashboard/appointments.xlsx", s.appointmentsExport)
	return mux
}

// handler wraps the routes in the full middleware stack.
func (s *server) handler(csrfKey []byte) http.Handler {
	csp := strings.Join([]string{
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https: http:",
		"script-src 'self' 'unsafe-inline'",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ")

	return middleware.Chain(
		s.routes(),
		middleware.RequestID,
		middleware.AccessLog(s.logger),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: csp}),
		middleware.PlaintextCSRF(!s.secureCookies),
		middleware.CSRF(csrfKey, s.secureCookies, s.logger),
	)
}

func Run(ctx context.Context, cfg Config) error {
	logger := applog.New("hospitalsuite-client")

	var store session.Store = session.NewMemoryStore()
	var checks []readyCheck
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		redisStore := session.NewRedisStore(rdb, "hospitalsuite:session", cfg.SessionTTL)
		store = redisStore
		checks = append(checks, readyCheck{name: "redis", check: redisStore.Ping})
	} else {
		logger.Warn("REDIS_ADDR not set; sessions are kept in memory")
	}

	var csrfKey []byte
	if cfg.CSRFKey != "" {
		key, err := decodeCSRFKey(cfg.CSRFKey)
		if err != nil {
			return err
		}
		csrfKey = key
	} else {
		key, err := newCSRFKeyBytes()
		if err != nil {
			return err
		}
		csrfKey = key
		logger.Warn("CSRF_KEY not set; generated a per-process key")
	}

	s := newServer(cfg, store, logger)
	s.readyChecks = checks

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler(csrfKey),
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("client listening", "addr", cfg.Addr, "api_base_url", s.api.BaseURL())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) readyz(w http.ResponseWriter, r *http.Request) {
	var failures []string
	for _, c := range s.readyChecks {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := c.check(ctx)
		cancel()
		if err != nil {
			failures = append(failures, c.name+": "+err.Error())
		}
	}
	if len(failures) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(strings.Join(failures, "; ")))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) appCSSFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := templatesFS.ReadFile("assets/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(data)
}

// currentSession resolves the request's session. Unknown or unreadable
// sessions are anonymous.
func (s *server) currentSession(r *http.Request) (string, session.Session) {
	id, ok := session.IDFromRequest(r)
	if !ok {
		return "", session.Session{}
	}
	sess, err := s.store.Read(r.Context(), id)
	if err != nil {
		s.logger.Error("session read failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		return id, session.Session{}
	}
	return id, sess
}

func (s *server) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data pageData) {
	if err := renderHTMLTemplate(w, tmpl, data); err != nil {
		http.Error(w, "template render failed", http.StatusInternalServerError)
		s.logger.Error("template render failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"template", tmpl.Name(),
			"error", err,
		)
	}
}

func renderHTMLTemplate(w http.ResponseWriter, tmpl *template.Template, data pageData) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := w.Write(buf.Bytes())
	return err
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusFound)
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?message="+url.QueryEscape(msg), http.StatusFound)
}

// parseUpload accepts both multipart and urlencoded submissions.
func parseUpload(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// readAttachment returns the uploaded file for field, or nil when none was
// sent.
func readAttachment(r *http.Request, field string) (*apiclient.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, apiclient.Invalid("File is too large")
	}
	if len(data) == 0 {
		return nil, nil
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &apiclient.Attachment{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

func writeDownload(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}
