package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	datagramsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ecaludp",
			Subsystem: "socket",
			Name:      "datagrams_sent_total",
			Help:      "Wire datagrams handed to the transport.",
		},
	)
	datagramsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecaludp",
			Subsystem: "socket",
			Name:      "datagrams_received_total",
			Help:      "Received datagrams by processing result.",
		},
		[]string{"result"},
	)
	messagesReassembled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ecaludp",
			Subsystem: "socket",
			Name:      "messages_reassembled_total",
			Help:      "Messages delivered to the caller.",
		},
	)
	reassemblyEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ecaludp",
			Subsystem: "socket",
			Name:      "reassembly_evictions_total",
			Help:      "Incomplete reassembly records removed by age.",
		},
	)
)

// Result labels for datagrams_received_total.
const (
	ResultOK                 = "ok"
	ResultMalformed          = "malformed"
	ResultDuplicate          = "duplicate"
	ResultUnsupportedVersion = "unsupported_version"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(datagramsSent, datagramsReceived, messagesReassembled, reassemblyEvictions)
	})
}

func RecordDatagramsSent(n int) {
	RegisterMetrics()
	datagramsSent.Add(float64(n))
}

func RecordDatagramReceived(result string) {
	RegisterMetrics()
	datagramsReceived.WithLabelValues(result).Inc()
}

func RecordMessageReassembled() {
	RegisterMetrics()
	messagesReassembled.Inc()
}

func RecordEvictions(n int) {
	RegisterMetrics()
	if n > 0 {
		reassemblyEvictions.Add(float64(n))
	}
}
