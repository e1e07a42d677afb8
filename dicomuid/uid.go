// Package dicomuid holds the static table of DICOM UIDs (transfer syntaxes
// and SOP classes) the core needs to recognize, and lookup helpers.
package dicomuid

import "fmt"

// Type classifies what an Info entry identifies.
type Type int

const (
	// TypeTransferSyntax identifies a transfer syntax UID.
	TypeTransferSyntax Type = iota
	// TypeSOPClass identifies a SOP class UID.
	TypeSOPClass
	// TypeOther covers well-known UIDs that are neither (e.g. coding schemes).
	TypeOther
)

func (t Type) String() string {
	switch t {
	case TypeTransferSyntax:
		return "TransferSyntax"
	case TypeSOPClass:
		return "SOPClass"
	default:
		return "Other"
	}
}

// Info describes one known UID.
type Info struct {
	UID     string
	Name    string
	Type    Type
	Retired bool
}

// Recognized transfer syntaxes (spec.md section 6).
const (
	ImplicitVRLittleEndian         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian         = "1.2.840.10008.1.2.1"
	DeflatedExplicitVRLittleEndian = "1.2.840.10008.1.2.1.99"
	ExplicitVRBigEndian            = "1.2.840.10008.1.2.2"
	JPEGBaseline                   = "1.2.840.10008.1.2.4.50"
	JPEGExtended                   = "1.2.840.10008.1.2.4.51"
	JPEGLosslessNonHierarchical    = "1.2.840.10008.1.2.4.57"
	JPEGLosslessFirstOrderPrediction = "1.2.840.10008.1.2.4.70"
	JPEGLSLossless                  = "1.2.840.10008.1.2.4.80"
	JPEGLSNearLossless              = "1.2.840.10008.1.2.4.81"
	JPEG2000LosslessOnly            = "1.2.840.10008.1.2.4.90"
	JPEG2000                        = "1.2.840.10008.1.2.4.91"
	RLELossless                     = "1.2.840.10008.1.2.5"
)

// Well-known SOP Class UIDs, used by tests and by callers inspecting a
// data set's SOPClassUID. Not exhaustive: the core does not validate against this
// list, it is informational (Info/Lookup convenience) only.
const (
	VerificationSOPClass   = "1.2.840.10008.1.1"
	CTImageStorage         = "1.2.840.10008.5.1.4.1.1.2"
	MRImageStorage         = "1.2.840.10008.5.1.4.1.1.4"
	SecondaryCaptureStorage = "1.2.840.10008.5.1.4.1.1.7"
	UltrasoundImageStorage  = "1.2.840.10008.5.1.4.1.1.6.1"
)

var registry = map[string]Info{
	ImplicitVRLittleEndian:           {ImplicitVRLittleEndian, "Implicit VR Little Endian", TypeTransferSyntax, false},
	ExplicitVRLittleEndian:           {ExplicitVRLittleEndian, "Explicit VR Little Endian", TypeTransferSyntax, false},
	DeflatedExplicitVRLittleEndian:   {DeflatedExplicitVRLittleEndian, "Deflated Explicit VR Little Endian", TypeTransferSyntax, false},
	ExplicitVRBigEndian:              {ExplicitVRBigEndian, "Explicit VR Big Endian", TypeTransferSyntax, true},
	JPEGBaseline:                     {JPEGBaseline, "JPEG Baseline (Process 1)", TypeTransferSyntax, false},
	JPEGExtended:                     {JPEGExtended, "JPEG Extended (Process 2 & 4)", TypeTransferSyntax, false},
	JPEGLosslessNonHierarchical:      {JPEGLosslessNonHierarchical, "JPEG Lossless, Non-Hierarchical (Process 14)", TypeTransferSyntax, false},
	JPEGLosslessFirstOrderPrediction: {JPEGLosslessFirstOrderPrediction, "JPEG Lossless, First-Order Prediction (Process 14 [Selection Value 1])", TypeTransferSyntax, false},
	JPEGLSLossless:                   {JPEGLSLossless, "JPEG-LS Lossless Image Compression", TypeTransferSyntax, false},
	JPEGLSNearLossless:               {JPEGLSNearLossless, "JPEG-LS Lossy (Near-Lossless) Image Compression", TypeTransferSyntax, false},
	JPEG2000LosslessOnly:             {JPEG2000LosslessOnly, "JPEG 2000 Image Compression (Lossless Only)", TypeTransferSyntax, false},
	JPEG2000:                         {JPEG2000, "JPEG 2000 Image Compression", TypeTransferSyntax, false},
	RLELossless:                      {RLELossless, "RLE Lossless", TypeTransferSyntax, false},

	VerificationSOPClass:    {VerificationSOPClass, "Verification SOP Class", TypeSOPClass, false},
	CTImageStorage:          {CTImageStorage, "CT Image Storage", TypeSOPClass, false},
	MRImageStorage:          {MRImageStorage, "MR Image Storage", TypeSOPClass, false},
	SecondaryCaptureStorage: {SecondaryCaptureStorage, "Secondary Capture Image Storage", TypeSOPClass, false},
	UltrasoundImageStorage:  {UltrasoundImageStorage, "Ultrasound Image Storage", TypeSOPClass, false},
}

// Lookup returns the Info for a known UID, or an error if it is unknown.
func Lookup(uid string) (Info, error) {
	if info, ok := registry[uid]; ok {
		return info, nil
	}
	return Info{}, fmt.Errorf("dicomuid: unknown UID %q", uid)
}

// IsEncapsulated reports whether pixel data under the given transfer syntax
// UID is carried as encapsulated (compressed) fragments rather than a raw
// native blob.
func IsEncapsulated(uid string) bool {
	switch uid {
	case ImplicitVRLittleEndian, ExplicitVRLittleEndian, ExplicitVRBigEndian, DeflatedExplicitVRLittleEndian:
		return false
	default:
		return true
	}
}
