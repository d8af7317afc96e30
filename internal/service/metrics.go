package service

import "github.com/prometheus/client_golang/prometheus"

var (
	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "identity_registrations_total", Help: "Registration attempts by outcome"},
		[]string{"outcome"},
	)
	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "identity_activations_total", Help: "Activation attempts by outcome"},
		[]string{"outcome"},
	)
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "identity_logins_total", Help: "Credential logins by outcome"},
		[]string{"outcome"},
	)
)

func init() { prometheus.MustRegister(registrationsTotal, activationsTotal, loginsTotal) }
