package dicomtag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfield/dicomkit/dicomtag"
)

func TestTagOrdering(t *testing.T) {
	a := dicomtag.Tag{Group: 0x0008, Element: 0x0005}
	b := dicomtag.Tag{Group: 0x0008, Element: 0x0020}
	c := dicomtag.Tag{Group: 0x0010, Element: 0x0010}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestIsPrivateAndPrivateCreator(t *testing.T) {
	assert.True(t, dicomtag.Tag{Group: 0x0009, Element: 0x0010}.IsPrivate())
	assert.False(t, dicomtag.Tag{Group: 0x0008, Element: 0x0010}.IsPrivate())

	assert.True(t, dicomtag.Tag{Group: 0x0009, Element: 0x0010}.IsPrivateCreator())
	assert.True(t, dicomtag.Tag{Group: 0x0009, Element: 0x00FF}.IsPrivateCreator())
	assert.False(t, dicomtag.Tag{Group: 0x0009, Element: 0x1001}.IsPrivateCreator())
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "(0010,0010)", dicomtag.PatientName.String())
}

func TestParseTag(t *testing.T) {
	tag, err := dicomtag.ParseTag("(0010,0010)")
	require.NoError(t, err)
	assert.Equal(t, dicomtag.PatientName, tag)

	tag, err = dicomtag.ParseTag("0010,0010")
	require.NoError(t, err)
	assert.Equal(t, dicomtag.PatientName, tag)

	_, err = dicomtag.ParseTag("not a tag")
	assert.Error(t, err)
}

func TestFindKnownTag(t *testing.T) {
	info, err := dicomtag.Find(dicomtag.PatientName)
	require.NoError(t, err)
	assert.Equal(t, "PN", info.VR)
	assert.Equal(t, "PatientName", info.Name)
}

func TestFindGroupLengthIsSynthesized(t *testing.T) {
	info, err := dicomtag.Find(dicomtag.Tag{Group: 0x0010, Element: 0x0000})
	require.NoError(t, err)
	assert.Equal(t, "UL", info.VR)
	assert.Equal(t, "GenericGroupLength", info.Name)
}

func TestFindRepeatingOverlayGroup(t *testing.T) {
	info, err := dicomtag.Find(dicomtag.Tag{Group: 0x6010, Element: 0x0010})
	require.NoError(t, err)
	assert.Equal(t, "OverlayRows", info.Name)

	info, err = dicomtag.Find(dicomtag.Tag{Group: 0x603e, Element: 0x3000})
	require.NoError(t, err)
	assert.Equal(t, "OverlayData", info.Name)
}

func TestFindUnknownTagErrors(t *testing.T) {
	_, err := dicomtag.Find(dicomtag.Tag{Group: 0x1234, Element: 0x5678})
	assert.Error(t, err)
}

func TestFindByName(t *testing.T) {
	info, err := dicomtag.FindByName("PatientName")
	require.NoError(t, err)
	assert.Equal(t, dicomtag.PatientName, info.Tag)

	_, err = dicomtag.FindByName("NotARealTagName")
	assert.Error(t, err)
}

func TestGetVRKindSpecialCases(t *testing.T) {
	assert.Equal(t, dicomtag.VRPixelData, dicomtag.GetVRKind(dicomtag.PixelData, "OW"))
	assert.Equal(t, dicomtag.VRItem, dicomtag.GetVRKind(dicomtag.Item, "NA"))
	assert.Equal(t, dicomtag.VRSequence, dicomtag.GetVRKind(dicomtag.Tag{Group: 0x0008, Element: 0x1110}, "SQ"))
	assert.Equal(t, dicomtag.VRDate, dicomtag.GetVRKind(dicomtag.PatientBirthDate, "DA"))
	assert.Equal(t, dicomtag.VRStringList, dicomtag.GetVRKind(dicomtag.PatientName, "PN"))
}

func TestDebugString(t *testing.T) {
	assert.Contains(t, dicomtag.DebugString(dicomtag.PatientName), "PatientName")
	assert.Contains(t, dicomtag.DebugString(dicomtag.Tag{Group: 0x0009, Element: 0x1001}), "private")
}
