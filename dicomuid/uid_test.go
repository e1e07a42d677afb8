package dicomuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomuid"
)

func TestLookupKnownTransferSyntax(t *testing.T) {
	info, err := dicomuid.Lookup(dicomuid.ExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, dicomuid.TypeTransferSyntax, info.Type)
	assert.False(t, info.Retired)
}

func TestLookupRetiredTransferSyntax(t *testing.T) {
	info, err := dicomuid.Lookup(dicomuid.ExplicitVRBigEndian)
	require.NoError(t, err)
	assert.True(t, info.Retired)
}

func TestLookupUnknownUID(t *testing.T) {
	_, err := dicomuid.Lookup("9.9.9.9.9")
	assert.Error(t, err)
}

func TestLookupSOPClass(t *testing.T) {
	info, err := dicomuid.Lookup(dicomuid.CTImageStorage)
	require.NoError(t, err)
	assert.Equal(t, dicomuid.TypeSOPClass, info.Type)
}

func TestIsEncapsulated(t *testing.T) {
	assert.False(t, dicomuid.IsEncapsulated(dicomuid.ImplicitVRLittleEndian))
	assert.False(t, dicomuid.IsEncapsulated(dicomuid.ExplicitVRLittleEndian))
	assert.False(t, dicomuid.IsEncapsulated(dicomuid.ExplicitVRBigEndian))
	assert.False(t, dicomuid.IsEncapsulated(dicomuid.DeflatedExplicitVRLittleEndian))
	assert.True(t, dicomuid.IsEncapsulated(dicomuid.JPEGBaseline))
	assert.True(t, dicomuid.IsEncapsulated(dicomuid.JPEG2000))
	assert.True(t, dicomuid.IsEncapsulated(dicomuid.RLELossless))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "TransferSyntax", dicomuid.TypeTransferSyntax.String())
	assert.Equal(t, "SOPClass", dicomuid.TypeSOPClass.String())
	assert.Equal(t, "Other", dicomuid.TypeOther.String())
}
