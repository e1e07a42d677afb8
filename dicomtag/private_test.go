package dicomtag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomtag"
)

func init() {
	dicomtag.RegisterPrivateDictionary("ACME CORP", []dicomtag.PrivateBlockEntry{
		{Offset: 0x01, VR: "LO", Name: "DeviceSerial", VM: "1"},
		{Offset: 0x02, VR: "DS", Name: "CalibrationFactor", VM: "1"},
	})
}

func TestPrivateCreatorTag(t *testing.T) {
	dataElement := dicomtag.Tag{Group: 0x0041, Element: 0x1001}
	creator, ok := dicomtag.PrivateCreatorTag(dataElement)
	require.True(t, ok)
	assert.Equal(t, dicomtag.Tag{Group: 0x0041, Element: 0x0010}, creator)
}

func TestPrivateCreatorTagRejectsNonPrivate(t *testing.T) {
	_, ok := dicomtag.PrivateCreatorTag(dicomtag.PatientName)
	assert.False(t, ok)
}

func TestPrivateCreatorTagRejectsCreatorSlotItself(t *testing.T) {
	_, ok := dicomtag.PrivateCreatorTag(dicomtag.Tag{Group: 0x0041, Element: 0x0010})
	assert.False(t, ok)
}

func TestFindPrivateResolvesRegisteredEntry(t *testing.T) {
	info, err := dicomtag.FindPrivate("ACME CORP", dicomtag.Tag{Group: 0x0041, Element: 0x1001})
	require.NoError(t, err)
	assert.Equal(t, "LO", info.VR)
	assert.Equal(t, "ACME CORP.DeviceSerial", info.Name)
}

func TestFindPrivateUnknownCreator(t *testing.T) {
	_, err := dicomtag.FindPrivate("NOT REGISTERED", dicomtag.Tag{Group: 0x0041, Element: 0x1001})
	assert.Error(t, err)
}

func TestFindPrivateUnknownOffset(t *testing.T) {
	_, err := dicomtag.FindPrivate("ACME CORP", dicomtag.Tag{Group: 0x0041, Element: 0x10FF})
	assert.Error(t, err)
}

func TestPrivateBlockNumber(t *testing.T) {
	block, ok := dicomtag.Tag{Group: 0x0041, Element: 0x0010}.PrivateBlockNumber()
	require.True(t, ok)
	assert.Equal(t, byte(0x10), block)

	_, ok = dicomtag.PatientName.PrivateBlockNumber()
	assert.False(t, ok)
}
