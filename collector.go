package objectgraph

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a Metrics instance as a prometheus.Collector so hosts
// that already run a Prometheus registry can scrape walk and rule counters
// without a second bookkeeping layer.
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(objectgraph.NewCollector(metrics, "myapp"))
type Collector struct {
	metrics *Metrics

	walksTotal      *prometheus.Desc
	walksValid      *prometheus.Desc
	walkSeconds     *prometheus.Desc
	rulesEvaluated  *prometheus.Desc
	rulesBridged    *prometheus.Desc
	violationsTotal *prometheus.Desc
	ruleInvocations *prometheus.Desc
	ruleViolations  *prometheus.Desc
}

// NewCollector creates a collector for m. namespace prefixes every metric
// name and may be empty.
func NewCollector(m *Metrics, namespace string) *Collector {
	return &Collector{
		metrics: m,
		walksTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "walks_total"),
			"Total number of completed validation walks.", nil, nil),
		walksValid: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "walks_valid_total"),
			"Number of walks that recorded no violations.", nil, nil),
		walkSeconds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "walk_seconds_total"),
			"Cumulative wall time spent in validation walks.", nil, nil),
		rulesEvaluated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "rules_evaluated_total"),
			"Total number of rule evaluations.", nil, nil),
		rulesBridged: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "rules_bridged_total"),
			"Async rules driven to completion by the sync bridge.", nil, nil),
		violationsTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "violations_total"),
			"Total number of recorded violations.", nil, nil),
		ruleInvocations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "rule_invocations_total"),
			"Rule evaluations by rule name.", []string{"rule"}, nil),
		ruleViolations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "objectgraph", "rule_violations_total"),
			"Violations by rule name.", []string{"rule"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.walksTotal
	ch <- c.walksValid
	ch <- c.walkSeconds
	ch <- c.rulesEvaluated
	ch <- c.rulesBridged
	ch <- c.violationsTotal
	ch <- c.ruleInvocations
	ch <- c.ruleViolations
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.metrics.Stats()

	ch <- prometheus.MustNewConstMetric(c.walksTotal, prometheus.CounterValue, float64(s.WalksTotal))
	ch <- prometheus.MustNewConstMetric(c.walksValid, prometheus.CounterValue, float64(s.WalksValid))
	ch <- prometheus.MustNewConstMetric(c.walkSeconds, prometheus.CounterValue, s.WalkTimeTotal.Seconds())
	ch <- prometheus.MustNewConstMetric(c.rulesEvaluated, prometheus.CounterValue, float64(s.RulesEvaluated))
	ch <- prometheus.MustNewConstMetric(c.rulesBridged, prometheus.CounterValue, float64(s.RulesBridged))
	ch <- prometheus.MustNewConstMetric(c.violationsTotal, prometheus.CounterValue, float64(s.ViolationsTotal))

	for name, rs := range s.Rules {
		ch <- prometheus.MustNewConstMetric(c.ruleInvocations, prometheus.CounterValue, float64(rs.Invocations), name)
		ch <- prometheus.MustNewConstMetric(c.ruleViolations, prometheus.CounterValue, float64(rs.Violations), name)
	}
}
