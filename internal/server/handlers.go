package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"k8s.io/klog/v2"

	"wstok/internal/diag"
	"wstok/internal/driver"
	"wstok/internal/lexer"
	"wstok/internal/source"
	"wstok/internal/token"
)

// invalidInputError carries the offset of ill-formed UTF-8 back to handlers.
type invalidInputError struct {
	offset int
	msg    string
}

func (e *invalidInputError) Error() string { return e.msg }

func (s *Server) tokenizeJSON(w http.ResponseWriter, r *http.Request) {
	var req TokenizeRequest
	if err := decodeJSONBody(w, r, &req, s.cfg.MaxBodyBytes); err != nil {
		var mr *malformedRequest
		if errors.As(err, &mr) {
			writeError(w, r, mr.status, mr.msg)
			return
		}
		klog.ErrorS(err, "failed to decode request", "id", RequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	unit, _ := lexer.ParseOffsetUnit(req.Offsets)
	norm, _ := source.ParseNormalization(req.Normalize)
	s.respond(w, r, *req.Text, unit, norm)
}

func (s *Server) tokenizeRaw(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unit, err := lexer.ParseOffsetUnit(q.Get("offsets"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	norm, err := source.ParseNormalization(q.Get("normalize"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	body := r.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body must not be larger than %d bytes", maxBytesError.Limit))
			return
		}
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return
	}
	// decode=true разбирает тело как файл: BOM и UTF-16.
	if v := q.Get("decode"); v != "" {
		want, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid decode %q", v))
			return
		}
		if want {
			if data, _, err = source.Decode(data); err != nil {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
		}
	}
	s.respond(w, r, string(data), unit, norm)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, text string, unit lexer.OffsetUnit, norm source.Normalization) {
	list, cached, err := s.tokenize(r.Context(), text, unit, norm)
	if err != nil {
		var inv *invalidInputError
		if errors.As(err, &inv) {
			offset := inv.offset
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{ID: RequestID(r.Context()), Error: inv.msg, Offset: &offset})
			return
		}
		klog.ErrorS(err, "tokenize failed", "id", RequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.tokens.Add(float64(len(list)))
	resp := TokenizeResponse{
		ID:      RequestID(r.Context()),
		Offsets: unit.String(),
		Count:   len(list),
		Cached:  cached,
		Tokens:  make([]TokenJSON, len(list)),
	}
	for i, tok := range list {
		resp.Tokens[i] = TokenJSON{Text: tok.Text, Offset: tok.Offset}
	}
	writeJSON(w, http.StatusOK, resp)
}

// tokenize consults the result cache and falls back to the driver.
// Cache failures are logged and never fail the request.
func (s *Server) tokenize(ctx context.Context, text string, unit lexer.OffsetUnit, norm source.Normalization) (token.List, bool, error) {
	key := CacheKey(text, unit, norm)
	if s.cache != nil {
		list, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			klog.ErrorS(err, "result cache read failed", "id", RequestID(ctx))
		}
		s.metrics.observeCache(hit)
		if hit {
			return list, true, nil
		}
	}

	res, err := driver.TokenizeText(ctx, "request", text, driver.Options{Normalize: norm, MaxDiagnostics: 1})
	if err != nil {
		return nil, false, err
	}
	if res.Bag.HasErrors() {
		d := res.Bag.Items()[0]
		if d.Code == diag.LexInvalidUTF8 {
			return nil, false, &invalidInputError{offset: int(d.Primary.Start), msg: d.Message}
		}
		return nil, false, errors.New(d.Message)
	}
	list := unit.Convert(res.File.Text(), res.Tokens)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, list); err != nil {
			klog.ErrorS(err, "result cache write failed", "id", RequestID(ctx))
		}
	}
	return list, false, nil
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeError(w, r, http.StatusServiceUnavailable, "not ready")
		return
	}
	if p, ok := s.cache.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, fmt.Sprintf("cache unavailable: %v", err))
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ready\n")
}
