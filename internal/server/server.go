// Package server exposes the minifier over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/benbjohnson/cssmin"
	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/internal/htmlstyle"
	"github.com/benbjohnson/cssmin/internal/logger"
	"github.com/gorilla/mux"
)

// DefaultMaxBodySize limits the size of a request body.
const DefaultMaxBodySize = 8 << 20

// Config holds the server settings.
type Config struct {
	Options     []cssmin.Option
	Threshold   diag.Severity // highest severity reported as an error
	MaxBodySize int64
}

// Response is the JSON body returned by the minify endpoints.
type Response struct {
	Output   string    `json:"output"`
	Errors   diag.List `json:"errors,omitempty"`
	Warnings diag.List `json:"warnings,omitempty"`
}

type errMSG struct {
	Message string `json:"error"`
}

// New returns a http.Handler with all the routes registered.
//
// It is safe to use in multiple goroutines.
func New(c Config) http.Handler {
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	h := &handler{cfg: c}

	r := mux.NewRouter()
	r.HandleFunc("/minify", h.Minify).Methods("POST")
	r.HandleFunc("/minify/html", h.MinifyHTML).Methods("POST")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	return r
}

type handler struct {
	cfg Config
}

// Minify minifies the style sheet in the request body. With
// "?declarations=true" the body is a declaration list instead.
func (h *handler) Minify(w http.ResponseWriter, r *http.Request) {
	src, ok := h.readBody(w, r)
	if !ok {
		return
	}

	fn := cssmin.Minify
	if r.URL.Query().Get("declarations") == "true" {
		fn = cssmin.MinifyDeclarations
	}
	out, list, err := fn(src, h.cfg.Options...)
	if err != nil {
		logger.Error("minify failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, &errMSG{"trouble minifying style sheet"})
		return
	}
	h.respond(w, r, out, list)
}

// MinifyHTML minifies the style sheets embedded in the HTML request body.
func (h *handler) MinifyHTML(w http.ResponseWriter, r *http.Request) {
	src, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var buf strings.Builder
	list, err := htmlstyle.Minify(&buf, strings.NewReader(src), h.cfg.Options...)
	if err != nil {
		logger.Error("minify html failed", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, &errMSG{"trouble minifying html document"})
		return
	}
	h.respond(w, r, buf.String(), list)
}

// Health reports that the server is up.
func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodySize))
	if err != nil {
		logger.Warn("read request body", "error", err)
		writeJSON(w, http.StatusBadRequest, &errMSG{"trouble reading request body"})
		return "", false
	}
	return string(b), true
}

func (h *handler) respond(w http.ResponseWriter, r *http.Request, out string, list diag.List) {
	for _, d := range list {
		logger.LogDiagnostic(r.URL.Path, d, h.cfg.Threshold)
	}
	errs, warnings := list.Split(h.cfg.Threshold)
	writeJSON(w, http.StatusOK, &Response{Output: out, Errors: errs, Warnings: warnings})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response", "error", err)
	}
}
