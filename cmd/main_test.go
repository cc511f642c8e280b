package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/nric/internal/config"
	"github.com/okian/nric/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const statsTable = `{"Data":{"row":[{"columns":[
	{"key":"1996 Jan","value":"3000"},{"key":"1996 Feb","value":"2800"},
	{"key":"1996 Mar","value":"3100"},{"key":"1996 Apr","value":"3050"},
	{"key":"1996 May","value":"3000"},{"key":"1996 Jun","value":"2950"},
	{"key":"1996 Jul","value":"3200"},{"key":"1996 Aug","value":"3300"},
	{"key":"1996 Sep","value":"3150"},{"key":"1996 Oct","value":"3100"},
	{"key":"1996 Nov","value":"2900"},{"key":"1996 Dec","value":"3000"}
]}]}}`

func testConfig(statsURL string) *config.Config {
	cfg := config.New()
	cfg.Addr = "127.0.0.1:0"
	cfg.StatsURL = statsURL
	cfg.StatsTimeoutMS = 2000
	return cfg
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the wired application handler", t, func() {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(statsTable))
		}))
		defer upstream.Close()

		ctx := context.Background()
		h := newHandler(ctx, testConfig(upstream.URL), logger.Nop())

		convey.Convey("When resolving against the stub statistics table", func() {
			req := httptest.NewRequest(http.MethodPost, "/resolve",
				strings.NewReader(`{"birth_date":"15061996","last_four":"567D"}`))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then the full pipeline should return the best candidate", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var body struct {
					NRIC      string  `json:"nric"`
					Estimate  float64 `json:"estimate"`
					RequestID string  `json:"request_id"`
				}
				convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body.NRIC, convey.ShouldEqual, "S9612567D")
				convey.So(body.Estimate, convey.ShouldAlmostEqual, 16425.0, 1e-6)
				convey.So(body.RequestID, convey.ShouldEqual, w.Header().Get("X-Request-ID"))
			})
		})

		convey.Convey("When the year is missing upstream", func() {
			req := httptest.NewRequest(http.MethodPost, "/resolve",
				strings.NewReader(`{"birth_date":"15062005","last_four":"567D"}`))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then the failure should surface as a bad gateway", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadGateway)
			})
		})

		convey.Convey("When validating and fetching docs", func() {
			for path, want := range map[string]int{
				"/validate/S1234567D": http.StatusOK,
				"/healthz":            http.StatusOK,
				"/openapi.yaml":       http.StatusOK,
				"/metrics":            http.StatusOK,
			} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, want)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a server started on an ephemeral port", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, testConfig("http://127.0.0.1:1"), logger.Nop()) }()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it should shut down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("timeout", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given an address that cannot be bound", t, func() {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Addr = "256.0.0.1:99999"

		convey.Convey("Then run should return the listener error", func() {
			err := run(context.Background(), cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the runtime metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
	})
}
