// Package api serves the services page collaborators over a JSON REST API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ant0ine/go-json-rest/rest"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/internal/ratelimiter"
	"github.com/aquarist-labs/glass/pkg/dialog"
	"github.com/aquarist-labs/glass/pkg/inventory"
	"github.com/aquarist-labs/glass/pkg/metrics"
	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
)

// Directory is the service directory the API exposes.
type Directory interface {
	List(ctx context.Context) ([]services.Desc, error)
	Get(ctx context.Context, name string) (*services.Desc, error)
	Create(ctx context.Context, req services.CreateRequest) (*services.Desc, error)
	Delete(ctx context.Context, name string) error
	Authorization(ctx context.Context, name string) (*mountcmd.Credential, error)
	Healthcheck(ctx context.Context) error
}

// MountCommander builds the mount command dialog of a CephFS service.
type MountCommander interface {
	MountCommandForm(ctx context.Context, name string) (dialog.Form, error)
}

// MountCommand is the response of the mount-command endpoint.
type MountCommand struct {
	Cmdline string `json:"cmdline"`
}

// API is the REST API handler.
type API struct {
	directory Directory
	inventory inventory.Provider
	mounts    MountCommander
	metrics   metrics.APIMetrics
	api       *rest.Api
}

// New builds the API. A nil m disables request metrics.
func New(directory Directory, inv inventory.Provider, mounts MountCommander, m metrics.APIMetrics) (*API, error) {
	if m == nil {
		m = metrics.NewNoopAPIMetrics()
	}

	api := rest.NewApi()
	api.Use(rest.DefaultCommonStack...)
	api.Use(&rest.ContentTypeCheckerMiddleware{})

	a := &API{
		directory: directory,
		inventory: inv,
		mounts:    mounts,
		metrics:   m,
		api:       api,
	}

	if err := a.registerRoutes(); err != nil {
		return nil, err
	}
	return a, nil
}

// UseRateLimit throttles every request through limiter. Call before Handler.
func (a *API) UseRateLimit(limiter *ratelimiter.RateLimiter) {
	a.api.Use(&ratelimiter.Middleware{Limiter: limiter})
}

// Handler returns the http.Handler serving the API.
func (a *API) Handler() http.Handler {
	return a.api.MakeHandler()
}

func (a *API) registerRoutes() error {
	routes := []*rest.Route{
		a.route(http.MethodGet, "/api/health", a.health),
		a.route(http.MethodGet, "/api/services", a.listServices),
		a.route(http.MethodPost, "/api/services", a.createService),
		a.route(http.MethodGet, "/api/services/:name", a.getService),
		a.route(http.MethodDelete, "/api/services/:name", a.deleteService),
		a.route(http.MethodGet, "/api/services/:name/mount-command", a.mountCommand),
		a.route(http.MethodGet, "/api/cephfs/:name/authorization", a.authorization),
		a.route(http.MethodGet, "/api/local/inventory", a.localInventory),
	}

	router, err := rest.MakeRouter(routes...)
	if err != nil {
		return err
	}
	a.api.SetApp(router)
	return nil
}

// route binds handler to method and path, recording per-route metrics.
func (a *API) route(method, path string, handler rest.HandlerFunc) *rest.Route {
	instrumented := func(w rest.ResponseWriter, r *rest.Request) {
		start := time.Now()
		a.metrics.RecordRequestStart(path)
		defer a.metrics.RecordRequestEnd(path)

		sw := &statusWriter{ResponseWriter: w}
		handler(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		a.metrics.RecordRequest(method, path, status, time.Since(start))
		logger.Debug("API %s %s -> %d (%s)", method, r.URL.Path, status, time.Since(start))
	}

	switch method {
	case http.MethodPost:
		return rest.Post(path, instrumented)
	case http.MethodDelete:
		return rest.Delete(path, instrumented)
	default:
		return rest.Get(path, instrumented)
	}
}

type statusWriter struct {
	rest.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (a *API) health(w rest.ResponseWriter, r *rest.Request) {
	if err := a.directory.Healthcheck(r.Context()); err != nil {
		logger.Warn("Healthcheck failed: %v", err)
		rest.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = w.WriteJson(map[string]string{"status": "ok"})
}

func (a *API) listServices(w rest.ResponseWriter, r *rest.Request) {
	list, err := a.directory.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []services.Desc{}
	}
	_ = w.WriteJson(list)
}

func (a *API) createService(w rest.ResponseWriter, r *rest.Request) {
	var req services.CreateRequest
	if err := r.DecodeJsonPayload(&req); err != nil {
		rest.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	desc, err := a.directory.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = w.WriteJson(desc)
}

func (a *API) getService(w rest.ResponseWriter, r *rest.Request) {
	desc, err := a.directory.Get(r.Context(), r.PathParam("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = w.WriteJson(desc)
}

func (a *API) deleteService(w rest.ResponseWriter, r *rest.Request) {
	if err := a.directory.Delete(r.Context(), r.PathParam("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) authorization(w rest.ResponseWriter, r *rest.Request) {
	cred, err := a.directory.Authorization(r.Context(), r.PathParam("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = w.WriteJson(cred)
}

func (a *API) localInventory(w rest.ResponseWriter, r *rest.Request) {
	inv, err := a.inventory.Inventory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	_ = w.WriteJson(inv)
}

func (a *API) mountCommand(w rest.ResponseWriter, r *rest.Request) {
	form, err := a.mounts.MountCommandForm(r.Context(), r.PathParam("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	field, ok := form.Field("cmdline")
	if !ok {
		rest.Error(w, "mount command unavailable", http.StatusInternalServerError)
		return
	}
	_ = w.WriteJson(MountCommand{Cmdline: field.Value})
}

func writeError(w rest.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("API request failed: %v", err)
	}
	rest.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotCephFS),
		errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrUnknownType):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
