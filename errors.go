package dicom

import "fmt"

// GoDICOMImplementationClassUIDPrefix roots this toolkit's Implementation
// Class UID; the ".1" branch below identifies this particular package.
const GoDICOMImplementationClassUIDPrefix = "1.2.826.0.1.3680043.10.2023"

// GoDICOMImplementationClassUID is written to (0002,0012) when a caller
// does not supply its own.
var GoDICOMImplementationClassUID = GoDICOMImplementationClassUIDPrefix + ".1.1"

// GoDICOMImplementationVersionName is written to (0002,0013) when a caller
// does not supply its own.
const GoDICOMImplementationVersionName = "DICOMKIT_1_0"

// The error taxonomy below is the vocabulary every parse failure is
// expressed in. Construction helpers return a concrete *ParseError whose
// Kind can be tested with errors.Is against the matching sentinel.

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// ErrInvalidPreamble: the 128-byte preamble could not be read.
	ErrInvalidPreamble ErrorKind = iota
	// ErrInvalidDICMPrefix: the 4-byte "DICM" magic was missing or wrong.
	ErrInvalidDICMPrefix
	// ErrUnexpectedEndOfData: fewer bytes remained than an element's
	// framing required.
	ErrUnexpectedEndOfData
	// ErrInvalidVR: the two VR bytes under explicit VR were not a
	// recognized code.
	ErrInvalidVR
	// ErrInvalidTag: a (group,element) pair could not be read.
	ErrInvalidTag
	// ErrUnsupportedTransferSyntax: TransferSyntaxUID names a syntax this
	// toolkit's native parser cannot decode (e.g. no registered codec).
	ErrUnsupportedTransferSyntax
	// ErrMissingRequiredTag: a mandatory element (e.g. TransferSyntaxUID)
	// was absent.
	ErrMissingRequiredTag
	// ErrInvalidDescriptor: the pixel descriptor (Rows/Columns/BitsAllocated/...)
	// was absent, inconsistent, or out of range.
	ErrInvalidDescriptor
	// ErrFrameOutOfRange: a requested frame index was outside [0, NumberOfFrames).
	ErrFrameOutOfRange
	// ErrParsingFailed: a catch-all for malformed input that doesn't fit a
	// more specific category (e.g. corrupt deflate stream).
	ErrParsingFailed
	// ErrCancelled: the caller's cancellation token fired mid-parse.
	ErrCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidPreamble:
		return "InvalidPreamble"
	case ErrInvalidDICMPrefix:
		return "InvalidDICMPrefix"
	case ErrUnexpectedEndOfData:
		return "UnexpectedEndOfData"
	case ErrInvalidVR:
		return "InvalidVR"
	case ErrInvalidTag:
		return "InvalidTag"
	case ErrUnsupportedTransferSyntax:
		return "UnsupportedTransferSyntax"
	case ErrMissingRequiredTag:
		return "MissingRequiredTag"
	case ErrInvalidDescriptor:
		return "InvalidDescriptor"
	case ErrFrameOutOfRange:
		return "FrameOutOfRange"
	case ErrParsingFailed:
		return "ParsingFailed"
	case ErrCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ParseError is the concrete error type returned for every failure listed
// in ErrorKind. Offset/Need are populated for ErrUnexpectedEndOfData, UID
// for ErrUnsupportedTransferSyntax, Index/Total for ErrFrameOutOfRange.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Offset  int64
	Need    int64
	UID     string
	Index   int
	Total   int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrUnexpectedEndOfData:
		return fmt.Sprintf("dicom: unexpected end of data at offset %d, need %d more byte(s)", e.Offset, e.Need)
	case ErrUnsupportedTransferSyntax:
		return fmt.Sprintf("dicom: unsupported transfer syntax %q", e.UID)
	case ErrFrameOutOfRange:
		return fmt.Sprintf("dicom: frame index %d out of range [0,%d)", e.Index, e.Total)
	default:
		if e.Message != "" {
			return fmt.Sprintf("dicom: %s: %s", e.Kind, e.Message)
		}
		return fmt.Sprintf("dicom: %s", e.Kind)
	}
}

// Is supports errors.Is(err, ErrCancelled) and similar sentinel comparisons
// by kind rather than by value.
func (e *ParseError) Is(target error) bool {
	other, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newParseError(kind ErrorKind, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Cancelled is returned (wrapped) when a Cancel token fires mid-parse.
var Cancelled = &ParseError{Kind: ErrCancelled}
