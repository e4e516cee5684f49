package api

import (
	"encoding/json"
	"net/http"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// maxBodyBytes bounds request bodies. Grids are a few kilobytes even
// for large maps, so this is generous.
const maxBodyBytes = 4 << 20

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a structured error with the status implied by its
// code family.
func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusForCode(code), errorResponse{Error: errorDetail{
		Code:    string(code),
		Message: errs.UserMessage(err),
	}})
}

// statusForCode maps error code families to HTTP statuses: missing
// things are 404, recipes the level cannot satisfy are 422, malformed
// requests are 400, and everything unexpected is 500.
func statusForCode(code errs.Code) int {
	switch code {
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound, errs.ErrCodeRunNotFound:
		return http.StatusNotFound
	case errs.ErrCodeNoCandidates, errs.ErrCodeTileOccupied, errs.ErrCodeDegenerateVisibility:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errs.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
