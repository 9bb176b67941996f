// Package server exposes the tokenizer over HTTP.
//
// Routes:
//
//	POST /v1/tokenize      JSON {"text": "...", "offsets": "byte|rune", "normalize": "nfc"}
//	POST /v1/tokenize/raw  request body is the text; ?offsets=&normalize=
//	GET  /healthz, /readyz, /metrics
//
// Ill-formed UTF-8 is answered with 422 and the offending byte offset.
package server
