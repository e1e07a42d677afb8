package dicomio

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
)

// Inflate eagerly decompresses a Deflated Explicit VR Little Endian main
// data set into an owned, in-memory buffer. Deflate transfer syntaxes carry
// only the main data set compressed (the file-meta group is always
// uncompressed, spec.md 4.B), so this runs after the meta group has already
// been consumed from the outer stream.
//
// A truncated or corrupt deflate stream is reported as an error; there is
// no fallback to treating the bytes as raw uncompressed data.
func Inflate(r io.Reader) ([]byte, error) {
	fr := flate.NewReader(r)
	defer fr.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, fr); err != nil {
		return nil, fmt.Errorf("dicomio: inflate failed: %w", err)
	}
	return out.Bytes(), nil
}

// Deflate compresses data for writing under a Deflated Explicit VR Little
// Endian transfer syntax.
func Deflate(data []byte) ([]byte, error) {
	var out bytes.Buffer
	fw, err := flate.NewWriter(&out, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("dicomio: deflate writer: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("dicomio: deflate write: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("dicomio: deflate close: %w", err)
	}
	return out.Bytes(), nil
}
