// Package review handles one check request end to end: validation,
// requirement extraction, per-file assessment and status mapping.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"report-checker/api/internal/conformity"
	"report-checker/api/internal/llm"
	"report-checker/api/internal/metrics"
	"report-checker/api/internal/rubric"
	"report-checker/api/internal/types"
)

// Request is the platform-neutral invocation envelope.
type Request struct {
	Method string
	Body   []byte
}

// Response carries the status code and a JSON-serializable body.
type Response struct {
	StatusCode int
	Body       any
	RequestID  string
}

// Error is a request failure with the status it maps to.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

func fail(status int, format string, args ...any) *Error {
	return &Error{Status: status, Msg: fmt.Sprintf(format, args...)}
}

// Options configures a Reviewer.
type Options struct {
	// Provider names the model backend in messages; ignored without Assessor.
	Provider string
	// APIKey is the provider credential. Checked per request when Assessor
	// is set.
	APIKey string
	// Assessor delegates grading to a model. Nil grades with the keyword
	// checks.
	Assessor *llm.Assessor
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Reviewer runs check requests. Safe for concurrent use.
type Reviewer struct {
	provider string
	apiKey   string
	assessor *llm.Assessor
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// New builds a Reviewer; a nil Logger falls back to slog.Default.
func New(opts Options) *Reviewer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Reviewer{
		provider: opts.Provider,
		apiKey:   opts.APIKey,
		assessor: opts.Assessor,
		log:      log,
		metrics:  opts.Metrics,
	}
}

// Handle never returns an error: every failure is a status and an
// {"error": ...} body. Panics are recovered into a 500.
func (rv *Reviewer) Handle(ctx context.Context, req Request) (resp Response) {
	id := uuid.NewString()
	log := rv.log.With("request_id", id)

	defer func() {
		if r := recover(); r != nil {
			log.Error("check panicked", "panic", r)
			resp = Response{
				StatusCode: http.StatusInternalServerError,
				Body:       types.ErrorResponse{Error: fmt.Sprintf("Server error: %v", r)},
			}
		}
		resp.RequestID = id
		rv.metrics.Request(resp.StatusCode)
	}()

	out, err := rv.check(ctx, log, req)
	if err != nil {
		var re *Error
		if errors.As(err, &re) {
			if re.Status >= http.StatusInternalServerError {
				log.Error("check failed", "status", re.Status, "err", re.Msg)
			} else {
				log.Info("check rejected", "status", re.Status, "err", re.Msg)
			}
			return Response{StatusCode: re.Status, Body: types.ErrorResponse{Error: re.Msg}}
		}
		log.Error("check failed", "err", err)
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       types.ErrorResponse{Error: "Server error: " + err.Error()},
		}
	}
	return Response{StatusCode: http.StatusOK, Body: out}
}

func (rv *Reviewer) check(ctx context.Context, log *slog.Logger, req Request) (types.CheckResponse, error) {
	if req.Method != http.MethodPost {
		return types.CheckResponse{}, fail(http.StatusMethodNotAllowed, "Method not allowed")
	}

	body := req.Body
	if len(body) == 0 {
		body = []byte("{}")
	}
	var in types.CheckRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return types.CheckResponse{}, fail(http.StatusBadRequest, "Invalid JSON body: %v", err)
	}

	if !in.HasRubric() {
		return types.CheckResponse{}, fail(http.StatusBadRequest, "Rubric or instructions required")
	}
	if len(in.FileContents) == 0 {
		return types.CheckResponse{}, fail(http.StatusBadRequest, "At least one report file required")
	}
	if rv.assessor != nil && rv.apiKey == "" {
		return types.CheckResponse{}, fail(http.StatusInternalServerError,
			"Server configuration error: missing %s API key", rv.provider)
	}

	reqs := rubric.Extract(in.RubricText, in.Instructions)
	if len(reqs) == 0 {
		return types.CheckResponse{}, fail(http.StatusBadRequest,
			`No requirements identified. Ensure rubric contains keywords like "pivot table".`)
	}
	log.Info("check started", "files", len(in.FileContents), "requirements", len(reqs))

	results := make([]types.FileResult, len(in.FileContents))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range in.FileContents {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("file %q: %v", f.FileName, r)
				}
			}()
			results[i] = rv.reviewFile(gctx, log, &in, reqs, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.CheckResponse{}, err
	}

	log.Info("check finished", "files", len(results))
	return types.CheckResponse{FileResults: results}, nil
}

func (rv *Reviewer) reviewFile(ctx context.Context, log *slog.Logger, in *types.CheckRequest, reqs []types.Requirement, f types.SubmittedFile) types.FileResult {
	fr := types.FileResult{FileName: f.FileName}

	if f.Failed() {
		log.Info("file flagged by caller", "file", f.FileName, "err", f.Error)
		rv.metrics.FileResult(metrics.OutcomeFileError)
		fr.Results = []types.ConformanceResult{{
			Requirement:         types.FileProcessing,
			Suggestion:          "Ensure file is valid.",
			Feedback:            f.Error,
			RevisionInstruction: "Upload a valid .docx, .xlsx, or .pdf file.",
		}}
		fr.Graded(0, "F")
		return fr
	}

	if rv.assessor == nil {
		fr.Results = conformity.EvaluateAll(f.Content, reqs)
		grade := conformity.Grade(fr.Results)
		fr.Graded(grade, conformity.Letter(grade))
		rv.metrics.FileResult(metrics.OutcomeEvaluated)
		return fr
	}

	engine := rv.assessor.Engine.Name()
	start := time.Now()
	a, err := rv.assessor.Assess(ctx, llm.AssessInput{
		RubricText:   in.RubricText,
		Instructions: in.Instructions,
		Requirements: reqs,
		FileName:     f.FileName,
		Content:      f.Content,
	})
	rv.metrics.Upstream(engine, llm.Outcome(err), time.Since(start))
	if err != nil {
		log.Warn("model assessment failed", "file", f.FileName, "engine", engine, "err", err)
		rv.metrics.FileResult(metrics.OutcomeAPIError)
		fr.Results = []types.ConformanceResult{{
			Requirement:         types.APIProcessing,
			Suggestion:          "Retry the check later.",
			Feedback:            fmt.Sprintf("Failed to process with %s API: %v", engine, err),
			RevisionInstruction: "Resubmit the file once the grading service is available.",
		}}
		fr.Graded(0, "F")
		return fr
	}

	rv.metrics.FileResult(metrics.OutcomeEvaluated)
	fr.Results = a.Results
	fr.Graded(a.Grade, a.LetterGrade)
	return fr
}
