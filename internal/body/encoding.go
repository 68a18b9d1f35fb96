// internal/body/encoding.go
//
// Declared-charset resolution and byte-to-text decoding.
//
// Context
// -------
// Clients declare a charset in the Content-Type header.  We honor a small
// fixed table and fall back to UTF-8 for anything unknown; an exotic charset
// must never block request processing.  UTF-16LE goes through x/text, the
// other two schemes are byte-transparent.
package body

import (
	"mime"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Scheme is a canonical decode scheme for a finalized payload.
type Scheme string

const (
	SchemeUTF8    Scheme = "utf8"
	SchemeASCII   Scheme = "ascii"
	SchemeUTF16LE Scheme = "utf16le"
)

// encodingTable maps declared charset tokens (upper-cased) to schemes.
var encodingTable = map[string]Scheme{
	"UTF-8":    SchemeUTF8,
	"US-ASCII": SchemeASCII,
	"UTF-16LE": SchemeUTF16LE,
}

// ResolveEncoding maps a declared charset token to a Scheme.  It is total:
// unrecognized tokens resolve to SchemeUTF8 rather than failing.
func ResolveEncoding(token string) Scheme {
	if s, ok := encodingTable[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return s
	}
	return SchemeUTF8
}

// SchemeFromContentType extracts the charset parameter from a Content-Type
// header value and resolves it.  A missing or unparseable header yields the
// UTF-8 default.
func SchemeFromContentType(contentType string) Scheme {
	if contentType == "" {
		return SchemeUTF8
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return SchemeUTF8
	}
	return ResolveEncoding(params["charset"])
}

// Decode converts a finalized byte sequence to text under the scheme.
// UTF-8 and US-ASCII payloads pass through byte-for-byte; UTF-16LE is
// transcoded.
func (s Scheme) Decode(raw []byte) (string, error) {
	switch s {
	case SchemeUTF16LE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return string(raw), nil
	}
}
