package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/safing/harbor/service/mgr"
)

// Handler serves every registered counter in Prometheus exposition format,
// mirroring the teacher's metricsAPI.ServeHTTP (base/metrics/api.go) minus
// its permission and expertise-level machinery.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		WritePrometheus(w)
	})
}

// StartServer registers the /metrics endpoint on addr and serves it for
// the lifetime of m, following the teacher's api.serverManager/stopServer
// pair (base/api/router.go): ListenAndServe runs as a worker so a failed
// listen gets the manager's normal retry-with-backoff, and a graceful
// Shutdown runs once m's context is cancelled.
func StartServer(m *mgr.Manager, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	m.Go("metrics server", func(_ *mgr.WorkerCtx) error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	go func() {
		<-m.Ctx().Done()
		_ = server.Shutdown(context.Background())
	}()
}
