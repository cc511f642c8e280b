package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then its collectors should be registered there", func() {
				So(manager, ShouldNotBeNil)
				manager.validations.WithLabelValues(ResultValid, "").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "nric_service_validations_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and constant labels should follow the options", func() {
				manager.resolutions.WithLabelValues(OutcomeResolved).Inc()
				expected := `
# HELP test_namespace_test_subsystem_resolutions_total Identifier resolutions by outcome
# TYPE test_namespace_test_subsystem_resolutions_total counter
test_namespace_test_subsystem_resolutions_total{env="test",outcome="resolved"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_namespace_test_subsystem_resolutions_total")
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording validations", func() {
			before := testutil.ToFloat64(globalManager.validations.WithLabelValues(ResultInvalid, "checksum"))
			RecordValidation(false, "checksum")
			RecordValidation(true, "")

			Convey("Then the labelled counter should advance", func() {
				after := testutil.ToFloat64(globalManager.validations.WithLabelValues(ResultInvalid, "checksum"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording resolutions", func() {
			before := testutil.ToFloat64(globalManager.resolutions.WithLabelValues(OutcomeNoCandidate))
			RecordResolution(OutcomeNoCandidate)

			Convey("Then the outcome counter should advance", func() {
				So(testutil.ToFloat64(globalManager.resolutions.WithLabelValues(OutcomeNoCandidate))-before, ShouldEqual, 1)
			})
		})

		Convey("When recording histograms and gauges", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordResolutionCandidates(9)
					RecordResolutionLatency(12.5)
					RecordStatisticsFetchLatency(250)
					RecordStatisticsFetchError("status")
					RecordBatchSize(42)
					RecordHTTPRequest("validate", "GET", "200")
					RecordHTTPRequestDuration("validate", "GET", "200", 1.5)
					RecordErrorByType("client_error", "medium")
					RecordErrorByEndpoint("resolve", "POST", "client_error")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.4)
				}, ShouldNotPanic)
			})

			Convey("And the gauge should hold the last value", func() {
				UpdateSystemGoroutineCount(7)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 7)
			})
		})

		Convey("When gathering from the custom registry", func() {
			RecordBatchSize(3)
			_, err := GetRegistry().Gather()

			Convey("Then gathering should succeed", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
