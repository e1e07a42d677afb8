package dicomio_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomio"
)

func TestDeflateInflateRoundTrip(t *testing.T) {
	original := []byte("some main data set bytes, repeated repeated repeated")
	compressed, err := dicomio.Deflate(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, compressed)

	out, err := dicomio.Inflate(bytes.NewReader(compressed))
	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestInflateTruncatedStreamErrors(t *testing.T) {
	original := []byte("enough bytes to compress into more than one deflate block of output")
	compressed, err := dicomio.Deflate(original)
	require.NoError(t, err)

	truncated := compressed[:len(compressed)-2]
	_, err = dicomio.Inflate(bytes.NewReader(truncated))
	assert.Error(t, err)
}
