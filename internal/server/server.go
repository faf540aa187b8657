package server

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/registry"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/submission"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger routes request and workflow logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStatusChecker makes /healthz report the prediction service status.
func WithStatusChecker(checker predict.StatusChecker) Option {
	return func(s *Server) {
		s.status = checker
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithRegistry overrides the field catalog used to read posted forms.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// Server serves the form page. Every request builds a fresh form and
// submission state; nothing is kept between requests.
type Server struct {
	client    predict.Client
	status    predict.StatusChecker
	renderers *render.Registry
	fallback  string
	registry  *registry.Registry
	assets    fs.FS
	logger    *slog.Logger
}

// New wires a server. fallback names the renderer used when the Accept
// header matches none of the registered content types.
func New(client predict.Client, renderers *render.Registry, fallback string, options ...Option) (*Server, error) {
	if client == nil {
		return nil, errors.New("server: client is required")
	}
	if renderers == nil || !renderers.Has(fallback) {
		return nil, errors.New("server: fallback renderer is not registered")
	}

	s := &Server{
		client:    client,
		renderers: renderers,
		fallback:  fallback,
		registry:  registry.Default(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleForm)
	r.Post("/", s.handleSubmit)
	r.Get("/healthz", s.handleHealth)
	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	}
	return r
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusOK, render.NewView(form.New(s.registry), submission.State{}))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	state := s.readForm(r)
	if len(state.Errors()) > 0 {
		s.write(w, r, http.StatusUnprocessableEntity, render.NewView(state, submission.State{}))
		return
	}

	wf, err := submission.New(s.client, state, submission.WithLogger(s.logger))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	final, err := wf.Submit(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.write(w, r, http.StatusOK, render.NewView(wf.Form(), final))
}

// readForm applies posted values to a fresh state. Rejections stay on the
// state as field errors.
func (s *Server) readForm(r *http.Request) *form.State {
	state := form.New(s.registry)
	state.SetName(strings.TrimSpace(r.PostForm.Get(render.NameControl)))

	input := make(map[string]string)
	for _, field := range s.registry.Fields() {
		if field.Kind == registry.KindSeverity {
			continue
		}
		if _, ok := r.PostForm[field.Name]; ok {
			input[field.Name] = r.PostForm.Get(field.Name)
		}
	}
	_ = state.Apply(input)
	_ = state.CheckRequired()

	if raw, ok := r.PostForm[render.SeverityControl]; ok && len(raw) > 0 {
		_ = state.SetSeverityText(raw[0])
	}
	return state
}

type healthResponse struct {
	Status   string               `json:"status"`
	Upstream *predict.ServiceInfo `json:"upstream,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	if s.status != nil {
		info, err := s.status.Status(r.Context())
		if err != nil {
			resp.Status = "degraded"
			resp.Error = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Upstream = &info
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode health response", "error", err)
	}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, view render.View) {
	renderer, err := s.renderers.Negotiate(r.Header.Get("Accept"), s.fallback)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := renderer.Render(r.Context(), view)
	if err != nil {
		s.logger.Error("render page", "renderer", renderer.Name(), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
