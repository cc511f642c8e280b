package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/goleak"

	service "github.com/okian/nric/internal/app"
	"github.com/okian/nric/internal/domain/resolver"
	"github.com/okian/nric/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeCounter struct {
	counts []int
	err    error
	calls  int
}

func (f *fakeCounter) MonthlyBirths(_ context.Context, _ string) ([]int, error) {
	f.calls++
	return f.counts, f.err
}

var monthly = []int{3000, 2800, 3100, 3050, 3000, 2950, 3200, 3300, 3150, 3100, 2900, 3000}

func TestService_Validate(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New(&fakeCounter{counts: monthly})
		ctx := context.Background()

		Convey("When validating a correct identifier", func() {
			res := svc.Validate(ctx, "S1234567D")

			Convey("Then it should be valid without a reason", func() {
				So(res, ShouldResemble, types.ValidationResult{NRIC: "S1234567D", Valid: true})
			})
		})

		Convey("When validating incorrect identifiers", func() {
			Convey("Then each rejection should carry its reason", func() {
				So(svc.Validate(ctx, "S1234567").Reason, ShouldEqual, "length")
				So(svc.Validate(ctx, "A1234567D").Reason, ShouldEqual, "prefix")
				So(svc.Validate(ctx, "S12X4567D").Reason, ShouldEqual, "digits")
				So(svc.Validate(ctx, "S1234567E").Reason, ShouldEqual, "checksum")
			})

			Convey("And the counters should include them", func() {
				svc.Validate(ctx, "S1234567E")
				stats := svc.GetStats()
				So(stats["validations"], ShouldEqual, int64(1))
				So(stats["invalid"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestService_ValidateBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a service with a small worker limit", t, func() {
		svc := service.New(&fakeCounter{counts: monthly},
			service.WithBatchWorkers(3),
			service.WithMaxBatchSize(500),
		)
		ctx := context.Background()

		Convey("When validating a mixed batch", func() {
			ids := make([]string, 0, 200)
			for i := 0; i < 100; i++ {
				ids = append(ids, "S1234567D", fmt.Sprintf("S%07dZ", i))
			}
			results, err := svc.ValidateBatch(ctx, ids)

			Convey("Then results should follow input order", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, len(ids))
				for i, r := range results {
					So(r.NRIC, ShouldEqual, ids[i])
				}
				So(results[0].Valid, ShouldBeTrue)
				So(results[198].Valid, ShouldBeTrue)
			})
		})

		Convey("When the batch is empty", func() {
			_, err := svc.ValidateBatch(ctx, nil)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, service.ErrEmptyBatch), ShouldBeTrue)
			})
		})

		Convey("When the batch exceeds the maximum", func() {
			_, err := svc.ValidateBatch(ctx, make([]string, 501))

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.ValidateBatch(cctx, []string{"S1234567D", "T1234567J"})

			Convey("Then the batch should fail with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestService_Resolve(t *testing.T) {
	Convey("Given a service backed by fixed statistics", t, func() {
		counter := &fakeCounter{counts: monthly}
		svc := service.New(counter)
		ctx := context.Background()

		Convey("When resolving a known fragment", func() {
			res, err := svc.Resolve(ctx, "15061996", "567D")

			Convey("Then the best candidate should be returned", func() {
				So(err, ShouldBeNil)
				So(res.NRIC, ShouldEqual, "S9612567D")
				So(counter.calls, ShouldEqual, 1)
				So(svc.GetStats()["resolutions"], ShouldEqual, int64(1))
			})
		})

		Convey("When statistics are unavailable", func() {
			counter.err = errors.New("connection refused")
			_, err := svc.Resolve(ctx, "15061996", "567D")

			Convey("Then the statistics error should propagate", func() {
				So(errors.Is(err, resolver.ErrStatistics), ShouldBeTrue)
				So(service.Outcome(err), ShouldEqual, "statistics_error")
				So(svc.GetStats()["resolve_failures"], ShouldEqual, int64(1))
			})
		})

		Convey("When no completion passes the checksum", func() {
			_, err := svc.Resolve(ctx, "15061996", "56D7")

			Convey("Then no candidate should be reported", func() {
				So(errors.Is(err, resolver.ErrNoCandidate), ShouldBeTrue)
				So(service.Outcome(err), ShouldEqual, "no_candidate")
			})
		})

		Convey("When the birth date is malformed", func() {
			_, err := svc.Resolve(ctx, "1996", "567D")

			Convey("Then it should be classified as bad input", func() {
				So(service.Outcome(err), ShouldEqual, "bad_input")
			})
		})
	})
}

func TestService_Complete(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New(&fakeCounter{})

		Convey("Then completing a partial identifier should add the checksum", func() {
			id, err := svc.Complete(context.Background(), "T1234567")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "T1234567J")
		})
	})
}
