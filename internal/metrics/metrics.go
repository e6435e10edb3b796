// Package metrics defines the Prometheus instrumentation exposed on the
// HTTP /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal counts processed Telegram updates by kind.
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partybot_updates_total",
		Help: "Processed Telegram updates by kind.",
	}, []string{"kind"})

	// RegistrationsCompleted counts finished onboarding pipelines.
	RegistrationsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partybot_registrations_completed_total",
		Help: "Users who completed the registration pipeline.",
	})

	// PartiesCreated counts recruitment posts by game mode.
	PartiesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partybot_parties_created_total",
		Help: "Party recruitments posted to the group by game mode.",
	}, []string{"mode"})

	// PartiesCompleted counts fully assembled parties.
	PartiesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partybot_parties_completed_total",
		Help: "Parties that reached their player count.",
	})

	// ApplicationsDecided counts organizer decisions by outcome.
	ApplicationsDecided = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partybot_applications_decided_total",
		Help: "Party applications decided by the organizer, by outcome.",
	}, []string{"outcome"})
)
