package cli

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	asmerr "github.com/matzehuels/asmscope/pkg/errors"
	"github.com/matzehuels/asmscope/pkg/observability"
	"github.com/matzehuels/asmscope/pkg/sink"
)

// api serves collated records read-only.
type api struct {
	reader sink.Reader
	logger *log.Logger
}

// newAPI returns the HTTP handler of the serve command:
//
//	GET /api/assembly            assembly record
//	GET /api/components          component summaries in rank order
//	GET /api/components/{rank}   one component with nodes, edges and clusters
func newAPI(reader sink.Reader, logger *log.Logger) http.Handler {
	a := &api{reader: reader, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.observe)
	r.Route("/api", func(r chi.Router) {
		r.Get("/assembly", a.assembly)
		r.Get("/components", a.components)
		r.Get("/components/{rank}", a.component)
	})
	return r
}

// observe reports every request to the server hooks and puts the logger
// into the request context.
func (a *api) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), a.logger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		a.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", time.Since(start))
	})
}

// GET /api/assembly
func (a *api) assembly(w http.ResponseWriter, r *http.Request) {
	rec, err := a.reader.Assembly(r.Context())
	if err != nil {
		responseError(w, r, err)
		return
	}
	responseJSON(w, http.StatusOK, rec)
}

// GET /api/components
func (a *api) components(w http.ResponseWriter, r *http.Request) {
	recs, err := a.reader.Components(r.Context())
	if err != nil {
		responseError(w, r, err)
		return
	}
	responseJSON(w, http.StatusOK, recs)
}

// GET /api/components/{rank}
func (a *api) component(w http.ResponseWriter, r *http.Request) {
	rank, err := strconv.Atoi(chi.URLParam(r, "rank"))
	if err != nil || rank < 1 {
		responseJSON(w, http.StatusBadRequest, map[string]string{"error": "rank must be a positive integer"})
		return
	}
	rec, err := a.reader.Component(r.Context(), rank)
	if err != nil {
		responseError(w, r, err)
		return
	}
	responseJSON(w, http.StatusOK, rec)
}

func responseError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, sink.ErrNotFound) {
		responseJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	loggerFromContext(r.Context()).Error("read records", "method", r.Method, "path", r.URL.Path, "err", err)
	responseJSON(w, http.StatusInternalServerError, map[string]string{"error": asmerr.UserMessage(err)})
}

func responseJSON(w http.ResponseWriter, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		code = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}
