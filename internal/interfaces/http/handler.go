package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/provisioner"
	"go.uber.org/ratelimit"
)

const (
	healthPath  = "/healthz"
	metricsPath = "/metrics"
	maxBodySize = 64 << 10
)

type handler struct {
	provisioningSvc application.ProvisioningService
	limiter         ratelimit.Limiter
}

// NewRouter returns the routes of the provisioning backend. Sub-organization
// creations are throttled to rateLimit per second, 0 disables throttling.
func NewRouter(
	provisioningSvc application.ProvisioningService, rateLimit int,
) http.Handler {
	limiter := ratelimit.NewUnlimited()
	if rateLimit > 0 {
		limiter = ratelimit.New(rateLimit)
	}
	h := &handler{provisioningSvc, limiter}

	registry := prometheus.NewRegistry()
	m := newMetrics(registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(m.instrument)

	r.Get(healthPath, h.health)
	r.Method(http.MethodGet, metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Post(provisioner.SubOrgPath, h.createSubOrg)
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) createSubOrg(w http.ResponseWriter, r *http.Request) {
	var body provisioner.SubOrgRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req, err := body.ToPorts()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.limiter.Take()

	result, err := h.provisioningSvc.CreateSubOrganization(r.Context(), req)
	if err != nil {
		status := statusFromError(err)
		log.WithField("request_id", middleware.GetReqID(r.Context())).
			WithError(err).Warnf("failed to create sub-organization %s", req.SubOrgName)
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, provisioner.NewSubOrgResponse(*result))
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidProvisionRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAttestation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrBackendUnavailable),
		errors.Is(err, domain.ErrInvalidWalletDetails):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, provisioner.ErrorResponse{Error: msg})
}
