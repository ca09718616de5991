package tcp

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
)

// Collector exports per-connection Sender/Receiver state as Prometheus
// gauges, grounded on the conns-map-plus-mutex shape of a TCPInfoCollector:
// connections register themselves, Collect walks the live set under a lock
// and emits one metric per gauge per connection.
type Collector struct {
	mu    sync.Mutex
	conns map[xid.ID]*Conn

	inFlight     *prometheus.Desc
	retx         *prometheus.Desc
	windowSize   *prometheus.Desc
	bytesPending *prometheus.Desc
}

// NewCollector returns a ready-to-register Collector. constLabels carries
// labels constant for the whole process (e.g. interface name).
func NewCollector(constLabels prometheus.Labels) *Collector {
	variableLabels := []string{"conn_id"}
	return &Collector{
		conns:        make(map[xid.ID]*Conn),
		inFlight:     prometheus.NewDesc("minnow_tcp_sequence_numbers_in_flight", "Sequence numbers sent but not yet acknowledged.", variableLabels, constLabels),
		retx:         prometheus.NewDesc("minnow_tcp_consecutive_retransmissions", "Consecutive retransmissions without a new acknowledgement.", variableLabels, constLabels),
		windowSize:   prometheus.NewDesc("minnow_tcp_receiver_window_size", "Window size last advertised by the connection's receiver.", variableLabels, constLabels),
		bytesPending: prometheus.NewDesc("minnow_tcp_reassembler_bytes_pending", "Bytes held by the reassembler, not yet in order.", variableLabels, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.inFlight
	descs <- c.retx
	descs <- c.windowSize
	descs <- c.bytesPending
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, conn := range c.conns {
		label := id.String()
		metrics <- prometheus.MustNewConstMetric(c.inFlight, prometheus.GaugeValue, float64(conn.Sender.SequenceNumbersInFlight()), label)
		metrics <- prometheus.MustNewConstMetric(c.retx, prometheus.GaugeValue, float64(conn.Sender.ConsecutiveRetransmissions()), label)
		msg := conn.Receiver.Send()
		metrics <- prometheus.MustNewConstMetric(c.windowSize, prometheus.GaugeValue, float64(msg.WindowSize), label)
		metrics <- prometheus.MustNewConstMetric(c.bytesPending, prometheus.GaugeValue, float64(conn.Receiver.BytesPending()), label)
	}
}

// Add registers conn under a fresh connection ID and returns it.
func (c *Collector) Add(conn *Conn) xid.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := xid.New()
	c.conns[id] = conn
	return id
}

// Remove unregisters a connection by ID.
func (c *Collector) Remove(id xid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, id)
}
