package handle

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"report-checker/api/internal/review"
	"report-checker/api/internal/types"
)

// --- CHECK REPORTS ----------------------------------------------------------

// CheckReports adapts net/http to review.Reviewer. The caller may bound the
// whole check with X-Request-Timeout (seconds) or ?timeoutSec=.
func (h *Handle) CheckReports(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	ctx := r.Context()
	if d := requestTimeout(r); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "Invalid JSON body: " + err.Error()})
		return
	}
	if int64(len(body)) > h.maxBody {
		writeJSON(w, http.StatusRequestEntityTooLarge, types.ErrorResponse{
			Error: "Request body too large (max " + strconv.FormatInt(h.maxBody, 10) + " bytes)",
		})
		return
	}

	resp := h.rv.Handle(ctx, review.Request{Method: r.Method, Body: body})
	if resp.RequestID != "" {
		w.Header().Set("X-Request-Id", resp.RequestID)
	}
	if resp.StatusCode == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", http.MethodPost)
	}
	writeJSON(w, resp.StatusCode, resp.Body)
}

func requestTimeout(r *http.Request) time.Duration {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return time.Duration(v) * time.Second
	}
	return 0
}
