package transport

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Encoding is a Content-Encoding label.
type Encoding string

const (
	Identity Encoding = "identity"
	Gzip     Encoding = "gzip"
	Deflate  Encoding = "deflate"
	Brotli   Encoding = "br"
	Zstd     Encoding = "zstd"
)

// OutboundEncoding is applied to every request body regardless of size.
const OutboundEncoding = Deflate

// AcceptEncoding lists the response encodings Decompress understands.
const AcceptEncoding = "deflate, br, gzip, zstd"

// ParseEncoding returns the encoding named by the first Content-Encoding
// value. Unknown or absent labels mean identity.
func ParseEncoding(values []string) Encoding {
	if len(values) == 0 {
		return Identity
	}
	first, _, _ := strings.Cut(values[0], ",")
	switch Encoding(strings.ToLower(strings.TrimSpace(first))) {
	case Gzip, "x-gzip":
		return Gzip
	case Deflate:
		return Deflate
	case Brotli:
		return Brotli
	case Zstd:
		return Zstd
	default:
		return Identity
	}
}

// Compress applies OutboundEncoding to body.
func Compress(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reads r fully through the decoder for enc. At most limit
// decoded bytes are accepted. Failures are *TransportError.
func Decompress(enc Encoding, r io.Reader, limit int64) ([]byte, error) {
	decoded, closeFn, err := decoder(enc, r)
	if err != nil {
		return nil, &TransportError{Op: "decompress", Err: fmt.Errorf("%s: %w", enc, err)}
	}
	defer closeFn()

	data, err := readLimited(decoded, limit)
	if err != nil {
		return nil, &TransportError{Op: "decompress", Err: fmt.Errorf("%s: %w", enc, err)}
	}
	return data, nil
}

func decoder(enc Encoding, r io.Reader) (io.Reader, func(), error) {
	switch enc {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case Deflate:
		fr := flate.NewReader(r)
		return fr, func() { fr.Close() }, nil
	case Brotli:
		return brotli.NewReader(r), func() {}, nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return r, func() {}, nil
	}
}

// readLimited reads r to EOF, failing once more than limit bytes arrive.
// A non-positive limit disables the cap.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrPayloadTooLarge
	}
	return data, nil
}
