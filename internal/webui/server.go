// Package webui exposes a minimal HTTP server with an HTML form that
// lets you paste a table description and see the verdict plus the
// generated statements, and a JSON API for scripts and other services.
//
// Routes:
//
//	GET  /                    → form
//	POST /ddl                 → validates/compiles the pasted JSON; renders inline
//	POST /api/tables/validate → verdict JSON for a table description
//	POST /api/tables/ddl      → verdict + statements for a table description
//	POST /api/schemas/ddl     → verdict + statements for a schema description
//	GET  /api/suggest         → identifier suggestion for ?name=
//	GET  /api/imports         → import history (?database=, ?limit=)
//
// Statements are never executed unless the server was constructed with an
// executor and apply mode on; the default is a dry run that returns the
// statement text for the caller to run in its own transaction.
package webui

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"companydb/internal/importlog"
	"companydb/internal/logger"
	"companydb/internal/provision"
	"companydb/internal/spec"
	"companydb/internal/storage"
	"companydb/internal/validate"
)

// maxBodyBytes caps request bodies; descriptions are small.
const maxBodyBytes = 1 << 20

// Config controls server startup.
type Config struct {
	Addr string

	// Execer, together with Apply, lets the API execute generated
	// statements. Nil means every endpoint is a dry run.
	Execer storage.Execer
	Apply  bool

	// History, when non-nil, backs the /api/imports listing.
	History importlog.Store
}

// Server wraps http.Server for convenience.
type Server struct {
	cfg  Config
	mux  *http.ServeMux
	tmpl *template.Template
}

// NewServer constructs a Server with routes and embedded template.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
		// Parse the embedded template at init time.
		tmpl: template.Must(template.New("index").Parse(indexHTML)),
	}
	s.routes()
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.Addr, s.mux)
}

// Handler exposes the mux for tests and callers running their own
// http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/ddl", s.handleForm)
	s.mux.HandleFunc("/api/tables/validate", s.handleValidateTable)
	s.mux.HandleFunc("/api/tables/ddl", s.handleTableDDL)
	s.mux.HandleFunc("/api/schemas/ddl", s.handleSchemaDDL)
	s.mux.HandleFunc("/api/suggest", s.handleSuggest)
	s.mux.HandleFunc("/api/imports", s.handleImports)
}

// executor returns the Execer statements may run through, or nil when the
// server is in dry-run mode.
func (s *Server) executor() storage.Execer {
	if s.cfg.Apply {
		return s.cfg.Execer
	}
	return nil
}

// pageData feeds the embedded template. The zero value renders the empty
// form; handleForm fills it in with results.
type pageData struct {
	Spec       string
	Valid      bool
	Errors     []string
	Statements []string
}

// handleIndex renders the input form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_ = s.tmpl.Execute(w, pageData{})
}

// handleForm processes the form and renders a results page.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}
	body := strings.TrimSpace(r.FormValue("spec"))

	t, err := spec.DecodeTable([]byte(body))
	if err != nil {
		http.Error(w, "bad table description: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Form submissions never execute; the API is the place for that.
	res, err := provision.CreateTable(r.Context(), nil, t)
	if err != nil {
		http.Error(w, "compile failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data := pageData{
		Spec:       body,
		Valid:      res.Verdict.Valid,
		Errors:     res.Verdict.Errors,
		Statements: res.Statements,
	}
	if err := s.tmpl.Execute(w, data); err != nil {
		logger.Error("template error: %v", err)
	}
}

// handleValidateTable returns the verdict for a posted table description.
func (s *Server) handleValidateTable(w http.ResponseWriter, r *http.Request) {
	t, ok := s.decodeTable(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, validate.TableSpec(t))
}

// ddlResponse is the JSON shape of the compile endpoints.
type ddlResponse struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors,omitempty"`
	Statements []string `json:"statements,omitempty"`
	Applied    bool     `json:"applied"`
}

// handleTableDDL validates and compiles a table description, executing the
// result only in apply mode.
func (s *Server) handleTableDDL(w http.ResponseWriter, r *http.Request) {
	t, ok := s.decodeTable(w, r)
	if !ok {
		return
	}

	res, err := provision.CreateTable(r.Context(), s.executor(), t)
	if err != nil {
		http.Error(w, "execution failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeDDL(w, res)
}

// handleSchemaDDL is the schema counterpart of handleTableDDL.
func (s *Server) handleSchemaDDL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	sc, err := spec.DecodeSchema(body)
	if err != nil {
		http.Error(w, "bad schema description: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := provision.CreateSchema(r.Context(), s.executor(), sc)
	if err != nil {
		http.Error(w, "execution failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeDDL(w, res)
}

// handleSuggest converts display text into a legal identifier.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		http.Error(w, "name parameter required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"input":      name,
		"identifier": spec.SuggestIdentifier(name),
	})
}

// handleImports lists import history, newest first.
func (s *Server) handleImports(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		http.Error(w, "import history not configured", http.StatusServiceUnavailable)
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	recs, err := s.cfg.History.List(r.Context(), q.Get("database"), limit)
	if err != nil {
		logger.Error("list imports: %v", err)
		http.Error(w, "listing failed", http.StatusBadGateway)
		return
	}
	if recs == nil {
		recs = []importlog.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// decodeTable reads and decodes a table description body, writing the error
// response itself when something is off.
func (s *Server) decodeTable(w http.ResponseWriter, r *http.Request) (spec.TableSpec, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return spec.TableSpec{}, false
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return spec.TableSpec{}, false
	}
	t, err := spec.DecodeTable(body)
	if err != nil {
		http.Error(w, "bad table description: "+err.Error(), http.StatusBadRequest)
		return spec.TableSpec{}, false
	}
	return t, true
}

// writeDDL maps a provision result onto the wire: 200 for valid input,
// 422 when the verdict rejects it.
func writeDDL(w http.ResponseWriter, res provision.Result) {
	status := http.StatusOK
	if !res.Verdict.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, ddlResponse{
		Valid:      res.Verdict.Valid,
		Errors:     res.Verdict.Errors,
		Statements: res.Statements,
		Applied:    res.Applied,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

// indexHTML is an embedded, minimal page with Tailwind-less vanilla styling.
//
//go:embed index.tmpl.html
var indexHTML string
