package handle

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"report-checker/api/internal/review"
	"report-checker/api/internal/types"
)

type Handle struct {
	rv      *review.Reviewer
	maxBody int64
}

// New wires the HTTP adapter. maxBody <= 0 falls back to 8 MiB.
func New(rv *review.Reviewer, maxBody int64) *Handle {
	if maxBody <= 0 {
		maxBody = 8 << 20
	}
	return &Handle{
		rv:      rv,
		maxBody: maxBody,
	}
}

// writeJSON encodes before writing the header so an unencodable body
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode response", "status", code, "err", err)
		buf.Reset()
		code = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(types.ErrorResponse{Error: "Server error: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
