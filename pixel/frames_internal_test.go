package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dicom "github.com/wrenfield/dicomkit"
)

// TestExtractRawFrameBitPackedMSBFirst exercises the BitsAllocated==1 path:
// bits pack MSB-first within each byte, contiguously across frame
// boundaries with no per-frame byte-alignment padding.
func TestExtractRawFrameBitPackedMSBFirst(t *testing.T) {
	// 3 samples per frame (Rows=1, Columns=3, SamplesPerPixel=1), 2 frames,
	// so 6 bits total packed into one byte: frame 0 = bits [0:3),
	// frame 1 = bits [3:6).
	//
	// Byte: 1 0 1  1 1 0  0 0  (MSB first)
	//       ^------frame0------^--frame1--^
	// 0xB8 = 1011 1000
	d := Descriptor{Rows: 1, Columns: 3, SamplesPerPixel: 1, BitsAllocated: 1, NumberOfFrames: 2}
	info := dicom.PixelDataInfo{Frames: [][]byte{{0xB8}}}

	frame0, err := extractRawFrame(info, d, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 1}, frame0)

	frame1, err := extractRawFrame(info, d, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 0}, frame1)
}

func TestExtractRawFrameBitPackedPreChunked(t *testing.T) {
	d := Descriptor{Rows: 1, Columns: 3, SamplesPerPixel: 1, BitsAllocated: 1, NumberOfFrames: 2}
	// Pre-chunked: each Item already starts its own frame at bit 0.
	info := dicom.PixelDataInfo{Frames: [][]byte{{0xA0}, {0xC0}}} // 1010 0000, 1100 0000

	frame0, err := extractRawFrame(info, d, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 1}, frame0)

	frame1, err := extractRawFrame(info, d, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 0}, frame1)
}

func TestExtractRawFrameBitPackedTooShortErrors(t *testing.T) {
	d := Descriptor{Rows: 1, Columns: 3, SamplesPerPixel: 1, BitsAllocated: 1, NumberOfFrames: 3}
	info := dicom.PixelDataInfo{Frames: [][]byte{{0xB8}}} // only 6 of the 9 needed bits
	_, err := extractRawFrame(info, d, 2)
	assert.Error(t, err)
}
