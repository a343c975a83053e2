package metrics_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	dto "github.com/prometheus/client_model/go"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/metrics"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/transaction"
)

// values returns the value of every series of metric name keyed by its single label value
func values(r *metrics.Recorder, name string) map[string]float64 {
	families, err := r.Gatherer().Gather()
	Expect(err).ToNot(HaveOccurred())
	out := map[string]float64{}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			out[m.GetLabel()[0].GetValue()] = value(m)
		}
	}
	return out
}

func value(m *dto.Metric) float64 {
	if m.GetCounter() != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}

var _ = Describe("Recorder", func() {
	var r *metrics.Recorder
	var result *transaction.LoadResult

	BeforeEach(func() {
		r = metrics.NewRecorder()
		result = &transaction.LoadResult{
			ID: "load-1",
			Staged: map[records.ResourceClass]int{
				records.ClassQueue:  4,
				records.ClassFilter: 2,
			},
			Committed: []records.ResourceClass{records.ClassQueue, records.ClassFilter},
		}
	})

	It("records a successful load", func() {
		r.RecordLoad(result, map[string]int{"em0": 3}, nil)

		Expect(values(r, "altqctl_staged_records_total")).To(Equal(map[string]float64{"queue": 4, "filter": 2}))
		Expect(values(r, "altqctl_commits_total")).To(Equal(map[string]float64{"queue": 1, "filter": 1}))
		Expect(values(r, "altqctl_interface_queues")).To(Equal(map[string]float64{"em0": 3}))
		Expect(values(r, "altqctl_load_info")).To(Equal(map[string]float64{"load-1": 1}))
		Expect(values(r, "altqctl_load_failures_total")).To(BeEmpty())
	})

	It("keeps only the last load id and interface gauges", func() {
		r.RecordLoad(result, map[string]int{"em0": 3}, nil)
		result.ID = "load-2"
		r.RecordLoad(result, map[string]int{"em1": 1}, nil)

		Expect(values(r, "altqctl_load_info")).To(Equal(map[string]float64{"load-2": 1}))
		Expect(values(r, "altqctl_interface_queues")).To(Equal(map[string]float64{"em1": 1}))
		Expect(values(r, "altqctl_commits_total")).To(Equal(map[string]float64{"queue": 2, "filter": 2}))
	})

	It("records failures by kind", func() {
		r.RecordLoad(result, map[string]int{"em0": 3}, nil)
		qerr := types.NewQueueError(types.ErrorKindNoSuchParent, "em0", "a", "parent b not found")
		result.Committed = nil
		r.RecordLoad(result, nil, errors.Wrap(qerr, "record 3"))
		r.RecordLoad(nil, nil, errors.New("boom"))

		Expect(values(r, "altqctl_load_failures_total")).To(Equal(map[string]float64{
			"NoSuchParent": 1,
			"Other":        1,
		}))
		Expect(values(r, "altqctl_interface_queues")).To(Equal(map[string]float64{"em0": 3}))
	})

	DescribeTable("ErrorKind",
		func(err error, kind string) {
			Expect(metrics.ErrorKind(err)).To(Equal(kind))
		},
		Entry("queue error", types.NewQueueError(types.ErrorKindDuplicateQueue, "em0", "a", "dup"),
			"DuplicateQueue"),
		Entry("wrapped aggregate", errors.Wrap(utilerrors.NewAggregate([]error{
			types.NewQueueError(types.ErrorKindMissingDefaultClass, "em0", "", "none"),
			types.NewQueueError(types.ErrorKindMissingRootClass, "em0", "", "none"),
		}), "queue validation failed"), "MissingDefaultClass"),
		Entry("plain error", errors.New("boom"), metrics.KindOther),
	)

	It("writes a textfile", func() {
		r.RecordLoad(result, map[string]int{"em0": 3}, nil)
		path := filepath.Join(GinkgoT().TempDir(), "altqctl.prom")
		Expect(r.WriteToTextfile(path)).To(Succeed())
		data, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`altqctl_interface_queues{interface="em0"} 3`))
	})
})
