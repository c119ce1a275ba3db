package observability

import (
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/hamzaalmahdi/civitai/pkg/logger"
)

// StartProfiling exposes the pprof handlers on a side listener when
// PPROF_ADDR is set (e.g. "127.0.0.1:6060"). It is a no-op otherwise so
// production deployments only opt in explicitly.
func StartProfiling(service string) {
	addr := os.Getenv("PPROF_ADDR")
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	go func() {
		logger.Infof("pprof listener starting, service=%s addr=%s", service, addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Errorf("pprof listener exited, service=%s addr=%s err=%v", service, addr, err)
		}
	}()
}
