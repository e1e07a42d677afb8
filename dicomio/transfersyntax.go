package dicomio

import (
	"encoding/binary"
	"fmt"

	"github.com/wrenfield/dicomkit/dicomuid"
)

// StandardTransferSyntaxes lists the transfer syntaxes whose element framing
// this package knows how to decode directly (spec.md 4.B). Encapsulated
// (compressed) transfer syntaxes are recognized too, but only as far as
// their element-stream framing goes: their pixel data payload is opaque to
// this package and is handled by the pixel package's codec registry.
var StandardTransferSyntaxes = []string{
	dicomuid.ImplicitVRLittleEndian,
	dicomuid.ExplicitVRLittleEndian,
	dicomuid.ExplicitVRBigEndian,
	dicomuid.DeflatedExplicitVRLittleEndian,
}

// CanonicalTransferSyntaxUID maps any recognized transfer syntax UID to the
// canonical UID describing how its element stream is framed: one of the
// four StandardTransferSyntaxes for native data, or
// dicomuid.ExplicitVRLittleEndian for every encapsulated (compressed)
// syntax, whose fragments are themselves framed as Explicit VR Little
// Endian regardless of the codec inside them (PS3.5 A.4).
//
// Returns an error if uid is not in dicomuid's table at all, or names
// something other than a transfer syntax (e.g. a SOP class UID) — the
// caller is expected to surface this as ErrUnsupportedTransferSyntax.
func CanonicalTransferSyntaxUID(uid string) (string, error) {
	switch uid {
	case dicomuid.ImplicitVRLittleEndian,
		dicomuid.ExplicitVRLittleEndian,
		dicomuid.ExplicitVRBigEndian,
		dicomuid.DeflatedExplicitVRLittleEndian:
		return uid, nil
	}

	info, err := dicomuid.Lookup(uid)
	if err != nil {
		return "", fmt.Errorf("dicomio: %q is not a recognized transfer syntax: %w", uid, err)
	}
	if info.Type != dicomuid.TypeTransferSyntax {
		return "", fmt.Errorf("dicomio: %q is not a transfer syntax (is %s)", uid, info.Type)
	}
	return dicomuid.ExplicitVRLittleEndian, nil
}

// ParseTransferSyntaxUID parses a transfer syntax UID and returns the byte
// order and implicit/explicit VR mode used to frame its element stream.
// uid may be any transfer syntax UID dicomuid recognizes, e.g.
// "1.2.840.10008.1.2" (returns LittleEndian, ImplicitVR) or a compressed
// syntax such as JPEGBaseline (returns LittleEndian, ExplicitVR).
func ParseTransferSyntaxUID(uid string) (byteorder binary.ByteOrder, implicit IsImplicitVR, err error) {
	canonical, err := CanonicalTransferSyntaxUID(uid)
	if err != nil {
		return nil, UnknownVR, err
	}

	switch canonical {
	case dicomuid.ImplicitVRLittleEndian:
		return binary.LittleEndian, ImplicitVR, nil
	case dicomuid.DeflatedExplicitVRLittleEndian, dicomuid.ExplicitVRLittleEndian:
		return binary.LittleEndian, ExplicitVR, nil
	case dicomuid.ExplicitVRBigEndian:
		return binary.BigEndian, ExplicitVR, nil
	default:
		// CanonicalTransferSyntaxUID only ever returns one of the cases
		// above; an unrecognized UID is reported as an error there, never
		// reaches here. Still, a malformed input must never panic.
		return nil, UnknownVR, fmt.Errorf("dicomio: unresolvable canonical transfer syntax %q for %q", canonical, uid)
	}
}
