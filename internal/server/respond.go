package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// requestError is a decoding or validation failure with its HTTP status.
type requestError struct {
	status int
	detail string
}

func (e *requestError) Error() string { return e.detail }

// decodeJSON reads the request body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return &requestError{status: http.StatusUnsupportedMediaType, detail: "Content-Type must be application/json"}
		}
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &requestError{status: http.StatusRequestEntityTooLarge, detail: "request body is too large"}
		case errors.Is(err, io.EOF):
			return &requestError{status: http.StatusBadRequest, detail: "request body is empty"}
		default:
			return &requestError{status: http.StatusBadRequest, detail: fmt.Sprintf("invalid JSON body: %v", err)}
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &requestError{status: http.StatusUnprocessableEntity, detail: validationDetail(verrs)}
		}
		return &requestError{status: http.StatusUnprocessableEntity, detail: err.Error()}
	}
	return nil
}

func validationDetail(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed on %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: failed on %s", field, fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// decodeOrReject writes the error response itself and reports whether decoding succeeded.
func (s *Server) decodeOrReject(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := s.decodeJSON(w, r, dst)
	if err == nil {
		return true
	}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		s.writeError(w, reqErr.status, reqErr.detail)
		return false
	}
	s.writeError(w, http.StatusBadRequest, err.Error())
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding JSON response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}
