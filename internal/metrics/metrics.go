// Package metrics exposes bulb and protocol metrics to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/wizlightd/internal/bulb"
)

// CallObserver counts UDP client calls. It satisfies wiz.Observer.
type CallObserver struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCallObserver creates the call counters
func NewCallObserver() *CallObserver {
	return &CallObserver{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizlightd_udp_calls_total",
			Help: "Bulb calls by operation and result (ok, error)",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wizlightd_udp_call_duration_seconds",
			Help:    "Time spent on bulb calls, including the reply wait",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"op"}),
	}
}

// ObserveCall records one call
func (o *CallObserver) ObserveCall(op string, ok bool, elapsed time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	o.calls.WithLabelValues(op, result).Inc()
	o.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Describe implements prometheus.Collector
func (o *CallObserver) Describe(ch chan<- *prometheus.Desc) {
	o.calls.Describe(ch)
	o.duration.Describe(ch)
}

// Collect implements prometheus.Collector
func (o *CallObserver) Collect(ch chan<- prometheus.Metric) {
	o.calls.Collect(ch)
	o.duration.Collect(ch)
}

// BulbCollector queries every bulb with an address at scrape time
type BulbCollector struct {
	controller *bulb.Controller
	timeout    time.Duration

	configured  *prometheus.Desc
	reachable   *prometheus.Desc
	on          *prometheus.Desc
	brightness  *prometheus.Desc
	temperature *prometheus.Desc
}

// NewBulbCollector creates a collector bounding each scrape by timeout
func NewBulbCollector(controller *bulb.Controller, timeout time.Duration) *BulbCollector {
	labels := []string{"id", "name"}
	return &BulbCollector{
		controller: controller,
		timeout:    timeout,
		configured: prometheus.NewDesc("wizlightd_bulbs_configured",
			"Number of bulbs in the bulb list", nil, nil),
		reachable: prometheus.NewDesc("wizlightd_bulb_reachable",
			"1 if the bulb answered the last status query", labels, nil),
		on: prometheus.NewDesc("wizlightd_bulb_on",
			"1 if the bulb reported it is on", labels, nil),
		brightness: prometheus.NewDesc("wizlightd_bulb_brightness_percent",
			"Reported dimming level", labels, nil),
		temperature: prometheus.NewDesc("wizlightd_bulb_temperature_kelvin",
			"Reported white temperature", labels, nil),
	}
}

// Describe implements prometheus.Collector
func (c *BulbCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.configured
	ch <- c.reachable
	ch <- c.on
	ch <- c.brightness
	ch <- c.temperature
}

// Collect implements prometheus.Collector
func (c *BulbCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	bulbs := c.controller.Store().List()
	ch <- prometheus.MustNewConstMetric(c.configured, prometheus.GaugeValue, float64(len(bulbs)))

	type result struct {
		b     bulb.Bulb
		state bulb.State
		err   error
	}
	results := make([]result, len(bulbs))
	var wg sync.WaitGroup
	for i, b := range bulbs {
		if b.IP == "" {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := c.controller.Sync(ctx, b.ID)
			results[i] = result{b: b, state: state, err: err}
		}()
	}
	wg.Wait()

	for _, r := range results {
		if r.b.ID == "" {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.reachable, prometheus.GaugeValue, boolGauge(r.err == nil), r.b.ID, r.b.Name)
		if r.err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.on, prometheus.GaugeValue, boolGauge(r.state.Status.On), r.b.ID, r.b.Name)
		ch <- prometheus.MustNewConstMetric(c.brightness, prometheus.GaugeValue, float64(r.state.Status.Brightness), r.b.ID, r.b.Name)
		ch <- prometheus.MustNewConstMetric(c.temperature, prometheus.GaugeValue, float64(r.state.Status.Temperature), r.b.ID, r.b.Name)
	}
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Registry builds a registry holding the given collectors and a build info gauge
func Registry(version string, collectors ...prometheus.Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	for _, c := range collectors {
		registry.MustRegister(c)
	}
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "wizlightd_build_info",
		Help:        "Build information",
		ConstLabels: prometheus.Labels{"version": version},
	}, func() float64 { return 1 }))
	return registry
}

// Handler exposes the registry
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
