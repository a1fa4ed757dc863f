package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"report-checker/api/internal/handle"
)

// NewMux routes the public endpoints. metrics may be nil.
func NewMux(h *handle.Handle, metrics http.Handler, healthzBody string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(healthzBody))
	})
	mux.HandleFunc("/api/check", h.CheckReports)
	mux.HandleFunc("/.netlify/functions/check", h.CheckReports)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}

// StartHTTP serves handler on addr until ctx is cancelled, then drains
// in-flight checks for up to 30s.
func StartHTTP(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
