package pixel

import "encoding/binary"

// UnpackSamples is Stage 2: turns Stage 1's raw per-frame bytes into signed
// 32-bit sample values, honoring BitsAllocated (storage width),
// BitsStored/HighBit (the significant bit window) and PixelRepresentation
// (sign). A stored value narrower than its allocation is right-aligned at
// HighBit and, when signed, sign-extended from its own most significant
// stored bit — not BitsAllocated's.
func UnpackSamples(d Descriptor, raw []byte, bigEndian bool) []int32 {
	n := len(raw) / d.BytesPerSample()
	out := make([]int32, n)

	order := binary.ByteOrder(binary.LittleEndian)
	if bigEndian {
		order = binary.BigEndian
	}

	shift := uint(d.HighBit + 1 - d.BitsStored)
	mask := uint32(1)<<uint(d.BitsStored) - 1
	signBit := uint32(1) << uint(d.BitsStored-1)

	for i := 0; i < n; i++ {
		var stored uint32
		switch d.BitsAllocated {
		case 8:
			stored = uint32(raw[i])
		case 16:
			stored = uint32(order.Uint16(raw[i*2:]))
		case 32:
			stored = order.Uint32(raw[i*4:])
		default:
			stored = uint32(raw[i]) // 1-bit frames are pre-unpacked by ExtractFrame
		}

		v := (stored >> shift) & mask

		if d.PixelRepresentation == 1 && v&signBit != 0 {
			out[i] = int32(v) - int32(mask) - 1
		} else {
			out[i] = int32(v)
		}
	}
	return out
}
