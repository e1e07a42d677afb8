package dicomio_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomio"
	"github.com/wrenfield/dicomkit/dicomuid"
)

func TestParseTransferSyntaxUIDImplicitLittleEndian(t *testing.T) {
	order, implicit, err := dicomio.ParseTransferSyntaxUID(dicomuid.ImplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, order)
	assert.Equal(t, dicomio.ImplicitVR, implicit)
}

func TestParseTransferSyntaxUIDExplicitBigEndian(t *testing.T) {
	order, implicit, err := dicomio.ParseTransferSyntaxUID(dicomuid.ExplicitVRBigEndian)
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, order)
	assert.Equal(t, dicomio.ExplicitVR, implicit)
}

func TestParseTransferSyntaxUIDDeflatedUsesExplicitLittleEndianFraming(t *testing.T) {
	// Deflated Explicit VR Little Endian is, once inflated, framed exactly
	// like plain Explicit VR Little Endian.
	order, implicit, err := dicomio.ParseTransferSyntaxUID(dicomuid.DeflatedExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, order)
	assert.Equal(t, dicomio.ExplicitVR, implicit)
}

func TestCanonicalTransferSyntaxUIDCompressedFallsBackToExplicitLittleEndian(t *testing.T) {
	// A known non-standard (compressed) transfer syntax canonicalizes to
	// Explicit VR Little Endian framing for the element stream itself.
	canon, err := dicomio.CanonicalTransferSyntaxUID(dicomuid.JPEGBaseline)
	require.NoError(t, err)
	assert.Equal(t, dicomuid.ExplicitVRLittleEndian, canon)
}

func TestCanonicalTransferSyntaxUIDRejectsNonTransferSyntaxUID(t *testing.T) {
	_, err := dicomio.CanonicalTransferSyntaxUID(dicomuid.CTImageStorage)
	assert.Error(t, err)
}

func TestCanonicalTransferSyntaxUIDUnknownUIDReturnsError(t *testing.T) {
	// A (0002,0010) value absent from dicomuid's table is valid file input
	// (some other implementation's private transfer syntax), not a crash.
	_, err := dicomio.CanonicalTransferSyntaxUID("1.2.3.4.5.6.7.8.9.not.a.real.uid")
	assert.Error(t, err)
}

func TestParseTransferSyntaxUIDUnknownUIDReturnsErrorNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_, _, err := dicomio.ParseTransferSyntaxUID("1.2.3.4.5.6.7.8.9.not.a.real.uid")
		assert.Error(t, err)
	})
}
