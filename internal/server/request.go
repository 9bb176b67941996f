package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TokenizeRequest is the body of POST /v1/tokenize.
// Text is a pointer so that "" is accepted while a missing field is not.
type TokenizeRequest struct {
	Text      *string `json:"text" validate:"required"`
	Offsets   string  `json:"offsets" validate:"omitempty,oneof=byte rune"`
	Normalize string  `json:"normalize" validate:"omitempty,oneof=none nfc nfd nfkc nfkd"`
}

// TokenJSON is one token of a response.
type TokenJSON struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// TokenizeResponse is returned by both tokenize routes.
type TokenizeResponse struct {
	ID      string      `json:"id"`
	Offsets string      `json:"offsets"`
	Count   int         `json:"count"`
	Cached  bool        `json:"cached"`
	Tokens  []TokenJSON `json:"tokens"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	ID     string `json:"id,omitempty"`
	Error  string `json:"error"`
	Offset *int   `json:"offset,omitempty"`
}

type malformedRequest struct {
	status int
	msg    string
}

func (mr *malformedRequest) Error() string {
	return mr.msg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSONBody decodes a single JSON object and maps every client mistake
// to a *malformedRequest with the status to answer.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		if mediaType != "application/json" {
			return &malformedRequest{status: http.StatusUnsupportedMediaType, msg: "Content-Type header is not application/json"}
		}
	}
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("request body contains badly-formed JSON (at position %d)", syntaxError.Offset)}
		case errors.Is(err, io.ErrUnexpectedEOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "request body contains badly-formed JSON"}
		case errors.As(err, &unmarshalTypeError):
			return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("request body contains an invalid value for the %q field", unmarshalTypeError.Field)}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("request body contains unknown field %s", fieldName)}
		case errors.Is(err, io.EOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "request body must not be empty"}
		case errors.As(err, &maxBytesError):
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("request body must not be larger than %d bytes", maxBytesError.Limit)}
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &malformedRequest{status: http.StatusBadRequest, msg: "request body must only contain a single JSON object"}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("missing required field %q", strings.ToLower(fe.Field()))}
			}
			return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("invalid value %q for field %q", fe.Value(), strings.ToLower(fe.Field()))}
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, ErrorResponse{ID: RequestID(r.Context()), Error: msg})
}
