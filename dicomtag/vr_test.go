package dicomtag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wrenfield/dicomkit/dicomtag"
)

func TestIsLongForm(t *testing.T) {
	assert.True(t, dicomtag.IsLongForm("OB"))
	assert.True(t, dicomtag.IsLongForm("SQ"))
	assert.False(t, dicomtag.IsLongForm("US"))
	assert.False(t, dicomtag.IsLongForm("PN"))
}

func TestIsKnownVR(t *testing.T) {
	assert.True(t, dicomtag.IsKnownVR("PN"))
	assert.True(t, dicomtag.IsKnownVR("UC"))
	assert.False(t, dicomtag.IsKnownVR("ZZ"))
}

func TestIsTextVR(t *testing.T) {
	assert.True(t, dicomtag.IsTextVR("PN"))
	assert.True(t, dicomtag.IsTextVR("LT"))
	assert.False(t, dicomtag.IsTextVR("US"))
	assert.False(t, dicomtag.IsTextVR("DA"))
}

func TestIsASCIIOnlyVR(t *testing.T) {
	assert.True(t, dicomtag.IsASCIIOnlyVR("DA"))
	assert.True(t, dicomtag.IsASCIIOnlyVR("UI"))
	assert.False(t, dicomtag.IsASCIIOnlyVR("PN"))
}

func TestPaddingByte(t *testing.T) {
	assert.Equal(t, byte(0x00), dicomtag.PaddingByte("UI"))
	assert.Equal(t, byte(0x20), dicomtag.PaddingByte("PN"))
	assert.Equal(t, byte(0x20), dicomtag.PaddingByte("DA"))
	assert.Equal(t, byte(0x00), dicomtag.PaddingByte("OB"))
}

func TestMaxLength(t *testing.T) {
	assert.Equal(t, 64, dicomtag.MaxLength("UI"))
	assert.Equal(t, 16, dicomtag.MaxLength("CS"))
	assert.Equal(t, 4, dicomtag.MaxLength("AS"))
	assert.Equal(t, 0, dicomtag.MaxLength("PN"))
}
