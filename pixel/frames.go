package pixel

import (
	"fmt"

	dicom "github.com/wrenfield/dicomkit"
	"github.com/wrenfield/dicomkit/dicomtag"
	"github.com/wrenfield/dicomkit/dicomuid"
)

// FrameDecoder decodes one compressed fragment set into a raw sample
// buffer matching Descriptor's native (unpacked-to-byte) layout. Pluggable
// codecs (JPEG, JPEG-LS, JPEG 2000, RLE) register a FrameDecoder for their
// transfer syntax UID; none ship with this package (spec.md 4.E Non-goals).
type FrameDecoder func(d Descriptor, fragments [][]byte) ([]byte, error)

var (
	frameDecoders    = map[string]FrameDecoder{}
	codecsRegistered bool
)

// RegisterFrameDecoder installs dec as the decoder for transferSyntaxUID.
// Like the private dictionary, registration is one-shot: it must happen
// before the first ExtractFrame call, and panics if attempted afterwards
// (spec.md section 5).
func RegisterFrameDecoder(transferSyntaxUID string, dec FrameDecoder) {
	if codecsRegistered {
		panic("pixel: RegisterFrameDecoder called after the codec registry was frozen")
	}
	frameDecoders[transferSyntaxUID] = dec
}

// FreezeFrameDecoders locks the codec registry against further
// registration. ExtractFrame calls this on first use; idempotent.
func FreezeFrameDecoders() { codecsRegistered = true }

// ExtractFrame returns Stage 1's output: the raw, unpacked sample bytes for
// one frame, native byte order, ready for Stage 2 (sample unpacking).
func ExtractFrame(ds *dicom.DataSet, d Descriptor, transferSyntaxUID string, index int) ([]byte, error) {
	FreezeFrameDecoders()

	if index < 0 || index >= d.NumberOfFrames {
		return nil, &FrameOutOfRangeError{Index: index, Total: d.NumberOfFrames}
	}

	elem, err := ds.FindElementByTag(dicomtag.PixelData)
	if err != nil {
		return nil, &DescriptorError{Reason: "PixelData element not present"}
	}
	if len(elem.Value) != 1 {
		return nil, &DescriptorError{Reason: "PixelData element has no payload"}
	}
	info, ok := elem.Value[0].(dicom.PixelDataInfo)
	if !ok {
		return nil, &DescriptorError{Reason: "PixelData element payload is not PixelDataInfo"}
	}

	if dicomuid.IsEncapsulated(transferSyntaxUID) {
		dec, ok := frameDecoders[transferSyntaxUID]
		if !ok {
			return nil, &UnsupportedTransferSyntaxError{UID: transferSyntaxUID}
		}
		fragments, err := fragmentsForFrame(info, index)
		if err != nil {
			return nil, err
		}
		return dec(d, fragments)
	}

	return extractRawFrame(info, d, index)
}

// fragmentsForFrame gathers the encapsulated fragment(s) belonging to one
// frame. Basic-offset-table entries mark frame boundaries; when the table
// holds a single zero offset (no table was supplied), every fragment is
// assumed to belong to the single frame.
func fragmentsForFrame(info dicom.PixelDataInfo, index int) ([][]byte, error) {
	if len(info.Offsets) <= 1 {
		if index != 0 {
			return nil, &FrameOutOfRangeError{Index: index, Total: 1}
		}
		return info.Frames, nil
	}
	if index >= len(info.Offsets) {
		return nil, &FrameOutOfRangeError{Index: index, Total: len(info.Offsets)}
	}

	// Concatenate all fragments, then re-slice at the offsets: a frame may
	// span more than one Item when fragmented (PS3.5 A.4).
	var all []byte
	for _, f := range info.Frames {
		all = append(all, f...)
	}
	start := info.Offsets[index]
	var end uint32
	if index+1 < len(info.Offsets) {
		end = info.Offsets[index+1]
	} else {
		end = uint32(len(all))
	}
	if int(end) > len(all) || start > end {
		return nil, fmt.Errorf("pixel: basic offset table entry out of range for frame %d", index)
	}
	return [][]byte{all[start:end]}, nil
}

// extractRawFrame slices frame index out of a native (uncompressed)
// PixelData payload. Bit-packed (BitsAllocated==1) data is unpacked to one
// byte per sample; everything else is returned byte-aligned per sample.
func extractRawFrame(info dicom.PixelDataInfo, d Descriptor, index int) ([]byte, error) {
	var raw []byte
	if len(info.Frames) == 1 {
		raw = info.Frames[0]
	} else if index < len(info.Frames) {
		raw = info.Frames[index]
	} else {
		return nil, &FrameOutOfRangeError{Index: index, Total: len(info.Frames)}
	}

	samplesPerFrame := d.SamplesPerFrame()

	if d.BitsAllocated == 1 {
		// PS3.5 8.1.1: bit-packed pixel cells form one contiguous bitstream,
		// most significant bit of each byte first, with no per-frame
		// byte-alignment padding. When PixelData arrived as a single blob
		// holding every frame, frame index's bits begin at absolute bit
		// position index*samplesPerFrame; when it arrived pre-chunked per
		// frame (one Item per frame), that chunk already starts at bit 0.
		bitBase := 0
		if len(info.Frames) == 1 {
			bitBase = index * samplesPerFrame
		}
		neededBytes := (bitBase + samplesPerFrame + 7) / 8
		if neededBytes > len(raw) {
			return nil, &DescriptorError{Reason: "PixelData too short for declared frame count"}
		}
		out := make([]byte, samplesPerFrame)
		for i := 0; i < samplesPerFrame; i++ {
			bitPos := bitBase + i
			byteIdx, bitInByte := bitPos/8, uint(bitPos%8)
			if raw[byteIdx]&(1<<(7-bitInByte)) != 0 {
				out[i] = 1
			}
		}
		return out, nil
	}

	frameSize := samplesPerFrame * d.BytesPerSample()
	if len(info.Frames) > 1 {
		if len(raw) < frameSize {
			return nil, &DescriptorError{Reason: "frame fragment smaller than descriptor implies"}
		}
		return raw[:frameSize], nil
	}

	start := index * frameSize
	if start+frameSize > len(raw) {
		return nil, &DescriptorError{Reason: "PixelData too short for declared frame count"}
	}
	return raw[start : start+frameSize], nil
}
