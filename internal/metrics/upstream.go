package metrics

import "strconv"

// ObserveUpstream records one upstream HTTP exchange. A zero status means no
// response was received.
func (m *Metrics) ObserveUpstream(method string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(method, label).Inc()
}
