// Package metrics counts account operations for Prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/questlog/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "questlog",
			Name:      "account_operations_total",
			Help:      "Account operations handled by the identity service, by outcome.",
		}, []string{"op", "result"}),
	}
	r.registry.MustRegister(
		r.operations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe counts one op with the result derived from err.
func (r *Recorder) Observe(op string, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(op, Result(err)).Inc()
}

// Result classifies err. Failures caused by the caller's input are
// "rejected"; anything else is "error".
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorEmailNotConfirmed),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorInvalidEmail),
		errors.Is(err, common.ErrorWeakPassword),
		errors.Is(err, common.ErrorDisplayNameSize),
		errors.Is(err, common.ErrorUnknownProcedure),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return ResultRejected
	default:
		return ResultError
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
