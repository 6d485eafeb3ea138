package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// maxBodyBytes caps request bodies; every command payload is tiny. Larger
// bodies are rejected with 413, never truncated.
const maxBodyBytes = 64 << 10

const codePayloadTooLarge = "PAYLOAD_TOO_LARGE"

// envelope is the top-level JSON object of every response
type envelope map[string]interface{}

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	Required  *int   `json:"required,omitempty"`
	Available *int   `json:"available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true
	writeJSON(w, status, body)
}

func writeErrorBody(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind shared.ErrorKind) int {
	switch kind {
	case shared.KindValidation, shared.KindInsufficientResource:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with its client code. Unclassified errors are
// logged and reported without their message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorBody(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), codePayloadTooLarge)
		return
	}

	kind := shared.KindOf(err)
	status := statusFor(kind)
	body := errorResponse{Error: err.Error(), Code: shared.CodeOf(err)}

	var insufficient *shared.InsufficientResourceError
	if errors.As(err, &insufficient) {
		body.Required = &insufficient.Required
		body.Available = &insufficient.Available
	}

	logger := common.LoggerFromContext(r.Context())
	switch kind {
	case shared.KindInvariant:
		metrics.RecordInvariantViolation(r.Method + " " + routePattern(r))
		logger.Log(common.LevelError, "Invariant violation", map[string]interface{}{"error": err.Error(), "path": r.URL.Path})
	case shared.KindTransient:
		logger.Log(common.LevelWarn, "Store unavailable", map[string]interface{}{"error": err.Error(), "path": r.URL.Path})
	case shared.KindUnknown:
		logger.Log(common.LevelError, "Unhandled error", map[string]interface{}{"error": err.Error(), "path": r.URL.Path})
		body.Error = "internal server error"
	}

	writeJSON(w, status, body)
}

// decodeJSON reads the body into dst and validates it. An empty body
// decodes to the zero value so optional-only payloads may be omitted.
func (s *Server) decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return shared.NewValidationError("body", fmt.Sprintf("invalid JSON body: %v", err))
	}
	if err := s.validate.Validate(dst); err != nil {
		return shared.NewValidationError("body", err.Error())
	}
	return nil
}

// send dispatches request and writes the response under key, or the error
func (s *Server) send(w http.ResponseWriter, r *http.Request, status int, key string, request common.Request) {
	resp, err := s.mediator.Send(r.Context(), request)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if key == "" {
		writeFlat(w, status, resp)
		return
	}
	writeSuccess(w, status, envelope{key: resp})
}

// writeFlat lifts the fields of a response object next to "success"
func writeFlat(w http.ResponseWriter, status int, resp interface{}) {
	raw, err := json.Marshal(resp)
	if err != nil {
		writeErrorBody(w, http.StatusInternalServerError, "failed to encode response", shared.CodeInternal)
		return
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		writeSuccess(w, status, envelope{"data": json.RawMessage(raw)})
		return
	}
	fields["success"] = json.RawMessage("true")
	writeJSON(w, status, fields)
}
