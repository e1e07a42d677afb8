package pixel_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dicom "github.com/wrenfield/dicomkit"
	"github.com/wrenfield/dicomkit/dicomtag"
	"github.com/wrenfield/dicomkit/pixel"
)

func newEmptyDataSet(t *testing.T) *dicom.DataSet {
	t.Helper()
	return &dicom.DataSet{}
}

func newDataSetWithWindow(t *testing.T, center, width float64) *dicom.DataSet {
	t.Helper()
	c := dicom.MustNewElement(dicomtag.WindowCenter, fmt.Sprintf("%v", center))
	w := dicom.MustNewElement(dicomtag.WindowWidth, fmt.Sprintf("%v", width))
	return &dicom.DataSet{Elements: []*dicom.Element{c, w}}
}

func TestUnpackSamplesUnsigned8Bit(t *testing.T) {
	d := pixel.Descriptor{
		BitsAllocated:       8,
		BitsStored:          8,
		HighBit:             7,
		PixelRepresentation: 0,
	}
	got := pixel.UnpackSamples(d, []byte{0, 64, 128, 255}, false)
	assert.Equal(t, []int32{0, 64, 128, 255}, got)
}

// TestUnpackSamplesSigned12BitStored exercises spec.md's multi-frame
// 16-bit-allocated, 12-bit-stored, signed example: a stored value of
// 0x0FFF (all twelve significant bits set) right-aligned at HighBit=11
// sign-extends to -1.
func TestUnpackSamplesSigned12BitStored(t *testing.T) {
	d := pixel.Descriptor{
		BitsAllocated:       16,
		BitsStored:          12,
		HighBit:             11,
		PixelRepresentation: 1,
	}
	raw := []byte{0xff, 0x0f} // little-endian uint16 0x0fff
	got := pixel.UnpackSamples(d, raw, false)
	require.Len(t, got, 1)
	assert.Equal(t, int32(-1), got[0])
}

func TestUnpackSamplesSigned12BitStoredPositive(t *testing.T) {
	d := pixel.Descriptor{
		BitsAllocated:       16,
		BitsStored:          12,
		HighBit:             11,
		PixelRepresentation: 1,
	}
	raw := []byte{0xff, 0x07} // 0x07ff = 2047, the largest positive 12-bit value
	got := pixel.UnpackSamples(d, raw, false)
	require.Len(t, got, 1)
	assert.Equal(t, int32(2047), got[0])
}

func TestUnpackSamplesBigEndian32Bit(t *testing.T) {
	d := pixel.Descriptor{
		BitsAllocated:       32,
		BitsStored:          32,
		HighBit:             31,
		PixelRepresentation: 0,
	}
	raw := []byte{0x00, 0x00, 0x01, 0x00} // 256, big-endian
	got := pixel.UnpackSamples(d, raw, true)
	require.Len(t, got, 1)
	assert.Equal(t, int32(256), got[0])
}

// TestVOILinearWindow mirrors spec.md section 8's window/level example:
// raw values [0, 64, 128, 255] under center=128, width=256 map to
// [0, 64, 128, 255]; the expected values below are matched within ±1.
func TestVOILinearWindow(t *testing.T) {
	ds := newDataSetWithWindow(t, 128, 256)
	voi, err := pixel.BuildVOITransform(ds, nil, 0, 255)
	require.NoError(t, err)

	inputs := []float64{0, 64, 128, 255}
	want := []int{0, 63, 127, 255}
	for i, x := range inputs {
		got := voi.Apply(x)
		assert.InDelta(t, want[i], got, 1.0, "x=%v", x)
	}
}

func TestVOIMissingWindowReturnsSentinel(t *testing.T) {
	ds := newEmptyDataSet(t)
	_, err := pixel.BuildVOITransform(ds, nil, 0, 255)
	assert.ErrorIs(t, err, pixel.ErrMissingWindow)
}

func TestVOIExplicitOverrideWins(t *testing.T) {
	ds := newDataSetWithWindow(t, 0, 10) // would clamp everything without the override
	voi, err := pixel.BuildVOITransform(ds, &pixel.Window{Center: 128, Width: 256}, 0, 255)
	require.NoError(t, err)
	assert.InDelta(t, 127, voi.Apply(128), 1.0)
}

func TestModalityIdentityWhenNoRescaleTags(t *testing.T) {
	ds := newEmptyDataSet(t)
	transform, err := pixel.BuildModalityTransform(ds)
	require.NoError(t, err)
	assert.Equal(t, float64(42), transform.Apply(42))
}

func TestInvertIfMonochrome1(t *testing.T) {
	d1 := pixel.Descriptor{PhotometricInterpretation: "MONOCHROME1"}
	d2 := pixel.Descriptor{PhotometricInterpretation: "MONOCHROME2"}
	assert.Equal(t, float64(255), pixel.InvertIfMonochrome1(d1, 0, 255))
	assert.Equal(t, float64(0), pixel.InvertIfMonochrome1(d1, 255, 255))
	assert.Equal(t, float64(0), pixel.InvertIfMonochrome1(d2, 0, 255))
}

func TestInvertIfMonochrome1NonDefaultRange(t *testing.T) {
	d1 := pixel.Descriptor{PhotometricInterpretation: "MONOCHROME1"}
	assert.Equal(t, float64(100), pixel.InvertIfMonochrome1(d1, 0, 100))
	assert.Equal(t, float64(0), pixel.InvertIfMonochrome1(d1, 100, 100))
}

func TestToDisplayRGBMonochrome(t *testing.T) {
	d := pixel.Descriptor{Rows: 1, Columns: 2, SamplesPerPixel: 1, PhotometricInterpretation: "MONOCHROME2"}
	pixels, err := pixel.ToDisplayRGB(d, nil, []float64{0, 255}, nil)
	require.NoError(t, err)
	require.Len(t, pixels, 2)
	assert.Equal(t, pixel.RGB{R: 0, G: 0, B: 0}, pixels[0])
	assert.Equal(t, pixel.RGB{R: 255, G: 255, B: 255}, pixels[1])
}

func TestToDisplayRGBInterleaved(t *testing.T) {
	d := pixel.Descriptor{Rows: 1, Columns: 2, SamplesPerPixel: 3, PhotometricInterpretation: "RGB", PlanarConfiguration: 0}
	raw := []int32{10, 20, 30, 40, 50, 60}
	pixels, err := pixel.ToDisplayRGB(d, raw, nil, nil)
	require.NoError(t, err)
	require.Len(t, pixels, 2)
	assert.Equal(t, pixel.RGB{R: 10, G: 20, B: 30}, pixels[0])
	assert.Equal(t, pixel.RGB{R: 40, G: 50, B: 60}, pixels[1])
}

func TestToDisplayRGBPlanar(t *testing.T) {
	d := pixel.Descriptor{Rows: 1, Columns: 2, SamplesPerPixel: 3, PhotometricInterpretation: "RGB", PlanarConfiguration: 1}
	raw := []int32{10, 40, 20, 50, 30, 60} // R plane, G plane, B plane
	pixels, err := pixel.ToDisplayRGB(d, raw, nil, nil)
	require.NoError(t, err)
	require.Len(t, pixels, 2)
	assert.Equal(t, pixel.RGB{R: 10, G: 20, B: 30}, pixels[0])
	assert.Equal(t, pixel.RGB{R: 40, G: 50, B: 60}, pixels[1])
}

func TestExtractDescriptorMissingTagsError(t *testing.T) {
	ds := newEmptyDataSet(t)
	_, err := pixel.ExtractDescriptor(ds)
	require.Error(t, err)
	var derr *pixel.DescriptorError
	assert.ErrorAs(t, err, &derr)
}

func TestFrameOutOfRangeError(t *testing.T) {
	err := &pixel.FrameOutOfRangeError{Index: 3, Total: 2}
	assert.Contains(t, err.Error(), "3")
	assert.Contains(t, err.Error(), "2")
}
