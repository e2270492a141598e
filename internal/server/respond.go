package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/vango-dev/tracked/internal/errors"
)

type errorBody struct {
	Error *errors.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and a JSON error body. Errors that are not
// *errors.Error are reported as T021 without their message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var te *errors.Error
	switch {
	case errors.Code(err) == "" &&
		(stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)):
		te = errors.Newf(errors.CategoryServer, "request cancelled")
		te.Status = http.StatusServiceUnavailable
	default:
		te = errors.FromError(err, "T021")
	}

	status := te.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"code", te.Code,
			"error", te.FormatCompact())
	}
	writeJSON(w, status, errorBody{Error: te})
}
