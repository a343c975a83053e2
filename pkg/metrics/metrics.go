package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/transaction"
)

const (
	namespace = "altqctl"

	ClassKey     = "class"
	KindKey      = "kind"
	InterfaceKey = "interface"
	LoadIDKey    = "load_id"

	// KindOther labels failures that are not queue configuration errors
	KindOther = "Other"
)

// Recorder collects load metrics in its own registry
type Recorder struct {
	registry *prometheus.Registry

	stagedRecords   *prometheus.CounterVec
	commits         *prometheus.CounterVec
	loadFailures    *prometheus.CounterVec
	interfaceQueues *prometheus.GaugeVec
	loadInfo        *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with all metrics registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stagedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staged_records_total",
			Help:      "Number of configuration records staged, per resource class.",
		}, []string{ClassKey}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Number of resource class commits.",
		}, []string{ClassKey}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Number of failed configuration loads, per error kind.",
		}, []string{KindKey}),
		interfaceQueues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interface_queues",
			Help:      "Number of queues configured on an interface by the last load.",
		}, []string{InterfaceKey}),
		loadInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_info",
			Help:      "Identifier of the last load, always 1.",
		}, []string{LoadIDKey}),
	}
	r.registry.MustRegister(r.stagedRecords, r.commits, r.loadFailures, r.interfaceQueues, r.loadInfo)
	return r
}

// Gatherer returns the registry metrics are collected in
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordLoad records the outcome of a load. queues holds the number of queues per interface,
// it is only recorded for successful loads.
func (r *Recorder) RecordLoad(result *transaction.LoadResult, queues map[string]int, err error) {
	if result != nil {
		for class, n := range result.Staged {
			r.stagedRecords.WithLabelValues(class.String()).Add(float64(n))
		}
		for _, class := range result.Committed {
			r.commits.WithLabelValues(class.String()).Inc()
		}
		r.loadInfo.Reset()
		r.loadInfo.WithLabelValues(result.ID).Set(1)
	}

	if err != nil {
		r.loadFailures.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	r.interfaceQueues.Reset()
	for ifName, n := range queues {
		r.interfaceQueues.WithLabelValues(ifName).Set(float64(n))
	}
}

// WriteToTextfile writes the metrics in the text exposition format, for the node exporter
// textfile collector
func (r *Recorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// ErrorKind returns the queue error kind found in err's chain, KindOther if there is none.
// aggregated errors report the kind of their first error.
func ErrorKind(err error) string {
	var qerr *types.QueueError
	if errors.As(err, &qerr) {
		return string(qerr.Kind)
	}
	var agg utilerrors.Aggregate
	if errors.As(err, &agg) && len(agg.Errors()) > 0 {
		return ErrorKind(agg.Errors()[0])
	}
	return KindOther
}
