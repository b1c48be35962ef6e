package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery outcomes recorded per SMS attempt.
const (
	outcomeSent      = "sent"
	outcomeFailed    = "failed"
	outcomeSimulated = "simulated"
)

var smsDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "attendflow_sms_deliveries_total",
	Help: "SMS delivery attempts by outcome.",
}, []string{"outcome"})
