// internal/body/decoder.go
//
// Stream-driving body decoder: form parameters and JSON documents.
//
// Context
// -------
// The decoder pulls chunks from a single-read stream into an Accumulator,
// stops pulling the instant the size ceiling is breached, resolves the
// declared charset, and parses the decoded text.  Transport failures
// (ErrPayloadTooLarge, read errors) are kept distinct from parse failures
// (*MalformedError) so callers can log and respond differently.
//
// Notes
// -----
//   - A stream is single-read.  Callers must not drive two decodes of the
//     same request concurrently; the per-request single-writer model makes
//     that a programming error, not a race to guard with locks.
package body

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

// readChunkSize is the per-read buffer size used to drain the stream.
const readChunkSize = 32 * 1024

// MalformedError reports a structured-document parse failure.  The original
// parse diagnostic is preserved for logging.
type MalformedError struct {
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("body: malformed payload: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// drain reads the stream to completion through a fresh Accumulator and
// returns the decoded text.  Reading stops on the first Accept failure, so
// an over-limit stream is abandoned rather than drained to EOF.
func drain(r io.Reader, contentType string) (string, error) {
	acc := NewAccumulator()
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if aerr := acc.Accept(buf[:n]); aerr != nil {
				return "", aerr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("body: stream read: %w", err)
		}
	}

	raw, err := acc.Finalize()
	if err != nil {
		return "", err
	}
	return SchemeFromContentType(contentType).Decode(raw)
}

// FormParams consumes the stream and parses it as a URL-encoded form.
// Malformed pairs are skipped permissively per query-string convention;
// repeated keys keep the first value.
func FormParams(r io.Reader, contentType string) (map[string]string, error) {
	text, err := drain(r, contentType)
	if err != nil {
		return nil, err
	}

	// ParseQuery reports the last bad pair but still returns every pair it
	// could decode; we take the permissive result.
	values, _ := url.ParseQuery(text)
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params, nil
}

// DecodeJSON consumes the stream and unmarshals it into v.  A syntax failure
// is reported as *MalformedError, distinct from ErrPayloadTooLarge.
func DecodeJSON(r io.Reader, contentType string, v any) error {
	text, err := drain(r, contentType)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &MalformedError{Err: err}
	}
	return nil
}
