// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	// EncodingUTF8 is the encoding assigned to text resources by the bundled packs.
	EncodingUTF8 = "utf-8"

	// ContentTypeOctetStream is the content type used when a pack declares none.
	ContentTypeOctetStream = "application/octet-stream"

	// ContentTypeSVG is the content type of SVG documents.
	ContentTypeSVG = "image/svg+xml"
)

var (
	// ErrBinaryContent is returned by Content.Text when the content carries no encoding.
	ErrBinaryContent = errors.New("cannot decode binary resource as text")

	// ErrUnsupportedEncoding is the sentinel error wrapped by UnsupportedEncodingError.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrDecode is the sentinel error wrapped by DecodeError.
	ErrDecode = errors.New("cannot decode resource")
)

type (
	// Content is the immutable result of fetching a resource. Construct it with
	// NewContent; accessors return copies so no caller can change what another
	// caller sees.
	Content struct {
		data        []byte
		contentType string
		encoding    string
		metadata    map[string]string
	}

	// UnsupportedEncodingError is returned by Content.Text for encodings it
	// cannot decode.
	UnsupportedEncodingError struct {
		Encoding string
	}

	// DecodeError is returned by Content.Text when the bytes are not valid in
	// the declared encoding. Offset is the first invalid byte, or -1 when the
	// decoder does not report one.
	DecodeError struct {
		Encoding string
		Offset   int
	}
)

// NewContent returns a Content holding copies of data and metadata. An empty
// encoding marks binary content.
func NewContent(data []byte, contentType, encoding string, metadata map[string]string) Content {
	c := Content{
		data:        slices.Clone(data),
		contentType: contentType,
		encoding:    encoding,
	}
	if len(metadata) > 0 {
		c.metadata = maps.Clone(metadata)
	}
	return c
}

// Data returns a copy of the raw bytes.
func (c Content) Data() []byte { return slices.Clone(c.data) }

// Size returns the number of raw bytes.
func (c Content) Size() int { return len(c.data) }

// ContentType returns the MIME type.
func (c Content) ContentType() string { return c.contentType }

// Encoding returns the text encoding, or "" for binary content.
func (c Content) Encoding() string { return c.encoding }

// IsText reports whether the content declares an encoding.
func (c Content) IsText() bool { return c.encoding != "" }

// Metadata returns a copy of the descriptive metadata. The result is never nil.
func (c Content) Metadata() map[string]string {
	if c.metadata == nil {
		return map[string]string{}
	}
	return maps.Clone(c.metadata)
}

// MetadataValue returns a single metadata value.
func (c Content) MetadataValue(key string) (string, bool) {
	v, ok := c.metadata[key]
	return v, ok
}

// Text decodes the content using its encoding. Any encoding known by its
// IANA name or WHATWG label is accepted ("utf-8", "latin-1", "cp1252",
// "utf-16le", ...). Bytes that are invalid in the encoding fail with a
// *DecodeError instead of being replaced.
func (c Content) Text() (string, error) {
	if c.encoding == "" {
		return "", ErrBinaryContent
	}

	enc := lookupEncoding(c.encoding)
	if enc == nil {
		return "", &UnsupportedEncodingError{Encoding: c.encoding}
	}
	if enc == unicode.UTF8 {
		if !utf8.Valid(c.data) {
			return "", &DecodeError{Encoding: c.encoding, Offset: firstInvalidUTF8(c.data)}
		}
		return string(c.data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(c.data)
	if err != nil {
		return "", &DecodeError{Encoding: c.encoding, Offset: -1}
	}
	// x/text decoders substitute U+FFFD for invalid input.
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", &DecodeError{Encoding: c.encoding, Offset: -1}
	}
	return string(decoded), nil
}

// Error implements the error interface.
func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %q", e.Encoding)
}

// Unwrap returns ErrUnsupportedEncoding for errors.Is() compatibility.
func (e *UnsupportedEncodingError) Unwrap() error { return ErrUnsupportedEncoding }

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("cannot decode resource as %s: invalid byte sequence", e.Encoding)
	}
	return fmt.Sprintf("cannot decode resource as %s: invalid byte at offset %d", e.Encoding, e.Offset)
}

// Unwrap returns ErrDecode for errors.Is() compatibility.
func (e *DecodeError) Unwrap() error { return ErrDecode }

// EncodingFor returns the encoding the bundled packs assign to contentType:
// utf-8 for text/* and SVG, "" (binary) for everything else.
func EncodingFor(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if strings.HasPrefix(mediaType, "text/") || mediaType == ContentTypeSVG {
		return EncodingUTF8
	}
	return ""
}

var strictAliases = map[string]string{
	"ascii":   "US-ASCII",
	"latin1":  "ISO-8859-1",
	"latin-1": "ISO-8859-1",
	"latin_1": "ISO-8859-1",
}

// lookupEncoding resolves an encoding name through the IANA registry, then
// the WHATWG labels. Python-style spellings ("utf_8", "latin-1") are retried
// with underscores turned into dashes and with dashes removed. It returns nil
// for unknown or unimplemented encodings.
func lookupEncoding(name string) encoding.Encoding {
	name = strings.TrimSpace(name)
	// WHATWG reads these as windows-1252; they mean the strict charsets here.
	if alias, ok := strictAliases[strings.ToLower(name)]; ok {
		name = alias
	}
	candidates := []string{
		name,
		strings.ReplaceAll(name, "_", "-"),
		strings.NewReplacer("_", "", "-", "").Replace(name),
	}
	for _, candidate := range candidates {
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			return enc
		}
		if enc, err := htmlindex.Get(candidate); err == nil && enc != nil {
			return enc
		}
	}
	return nil
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
