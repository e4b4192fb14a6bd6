package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/abatilo/clarity/internal/clog"
	clarityerrors "github.com/abatilo/clarity/internal/errors"
)

// BadRequestError reports a request the API could not decode.
type BadRequestError struct {
	Reason string
}

func (e BadRequestError) Error() string {
	return "bad request: " + e.Reason
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Message: msg, Type: kind}})
}

// fail maps err onto a status and writes it.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	clog.AddError(r.Context(), err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, kind, msg)
}

func classify(err error) (int, string) {
	var (
		badRequest    BadRequestError
		invalidTask   clarityerrors.InvalidTaskError
		invalidEnergy clarityerrors.InvalidEnergyError
		invalidFilter clarityerrors.InvalidFilterError
		invalidExport clarityerrors.InvalidExportError
		notFound      clarityerrors.TaskNotFoundError
		exists        clarityerrors.AlreadyExistsError
		completed     clarityerrors.AlreadyCompletedError
	)
	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &invalidTask):
		return http.StatusBadRequest, "invalid_task"
	case errors.As(err, &invalidEnergy):
		return http.StatusBadRequest, "invalid_energy"
	case errors.As(err, &invalidFilter):
		return http.StatusBadRequest, "invalid_filter"
	case errors.As(err, &invalidExport):
		return http.StatusBadRequest, "invalid_export"
	case errors.As(err, &notFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &exists):
		return http.StatusConflict, "already_exists"
	case errors.As(err, &completed):
		return http.StatusConflict, "already_completed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decode reads a JSON body of at most limit bytes. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return BadRequestError{Reason: err.Error()}
	}
	return nil
}
