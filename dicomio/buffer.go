// Package dicomio provides endian-aware primitive reads/writes over a byte
// stream, plus the transfer-syntax and character-set plumbing that sits
// underneath the element parser (spec.md component 4.B).
package dicomio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
)

// NativeByteOrder is the fixed little-endian order in which the parser
// stores OW payloads (and in which the pixel pipeline reads them back); it
// does not depend on the host machine.
var NativeByteOrder = binary.LittleEndian

type transferSyntaxStackEntry struct {
	byteorder binary.ByteOrder
	implicit  IsImplicitVR
}

type stackEntry struct {
	limit int64
	err   error
}

// IsImplicitVR distinguishes implicit-VR (VR inferred from the dictionary)
// from explicit-VR (VR encoded inline) data-element framing.
type IsImplicitVR int

const (
	// ImplicitVR: no VR bytes on disk; the dictionary supplies the VR.
	ImplicitVR IsImplicitVR = iota
	// ExplicitVR: VR bytes are encoded inline with each element.
	ExplicitVR
	// UnknownVR: for encoders/decoders that never need the distinction.
	UnknownVR
)

// Encoder serializes low-level DICOM primitives to an io.Writer (or an
// internal buffer, via NewBytesEncoder).
type Encoder struct {
	err error

	out io.Writer

	byteorder binary.ByteOrder
	implicit  IsImplicitVR

	oldTransferSyntaxes []transferSyntaxStackEntry
}

// NewBytesEncoder creates an encoder that accumulates into an in-memory
// buffer, retrievable with Bytes().
func NewBytesEncoder(byteorder binary.ByteOrder, implicit IsImplicitVR) *Encoder {
	return &Encoder{out: &bytes.Buffer{}, byteorder: byteorder, implicit: implicit}
}

// NewEncoder creates an encoder that writes directly to out.
func NewEncoder(out io.Writer, byteorder binary.ByteOrder, implicit IsImplicitVR) *Encoder {
	return &Encoder{out: out, byteorder: byteorder, implicit: implicit}
}

// TransferSyntax returns the encoder's current byte order and VR mode.
func (e *Encoder) TransferSyntax() (binary.ByteOrder, IsImplicitVR) {
	return e.byteorder, e.implicit
}

// PushTransferSyntax temporarily switches encoding mode; PopTransferSyntax
// restores the prior mode. Used when descending into group 0xFFFE item
// framing, which is always implicit VR regardless of the surrounding
// transfer syntax (spec.md 4.C).
func (e *Encoder) PushTransferSyntax(byteorder binary.ByteOrder, implicit IsImplicitVR) {
	e.oldTransferSyntaxes = append(e.oldTransferSyntaxes, transferSyntaxStackEntry{e.byteorder, e.implicit})
	e.byteorder = byteorder
	e.implicit = implicit
}

// PopTransferSyntax undoes the last PushTransferSyntax.
func (e *Encoder) PopTransferSyntax() {
	last := len(e.oldTransferSyntaxes) - 1
	ts := e.oldTransferSyntaxes[last]
	e.byteorder = ts.byteorder
	e.implicit = ts.implicit
	e.oldTransferSyntaxes = e.oldTransferSyntaxes[:last]
}

// SetError records err as the encoder's sticky error; later calls to
// SetError are no-ops once an error is set, and Error()/Bytes() surface it.
func (e *Encoder) SetError(err error) {
	if err != nil && e.err == nil {
		e.err = err
	}
}

// SetErrorf is SetError with Printf-style formatting.
func (e *Encoder) SetErrorf(format string, args ...interface{}) {
	e.SetError(fmt.Errorf(format, args...))
}

// Error returns the sticky error set by SetError, if any.
func (e *Encoder) Error() error { return e.err }

// Bytes returns the accumulated output of a bytes-backed encoder. Requires
// the encoder was created with NewBytesEncoder and carries no sticky error.
func (e *Encoder) Bytes() []byte {
	DoAssert(len(e.oldTransferSyntaxes) == 0)
	if e.err != nil {
		logrus.Panic(e.err)
	}
	return e.out.(*bytes.Buffer).Bytes()
}

func (e *Encoder) WriteByte(v byte) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteUInt16(v uint16) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteUInt32(v uint32) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteInt16(v int16) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteInt32(v int32) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteFloat32(v float32) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteFloat64(v float64) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

// WriteString writes v's bytes with no length prefix and no padding.
func (e *Encoder) WriteString(v string) {
	if _, err := e.out.Write([]byte(v)); err != nil {
		e.SetError(err)
	}
}

// WriteZeros writes n zero bytes.
func (e *Encoder) WriteZeros(n int) {
	if _, err := e.out.Write(make([]byte, n)); err != nil {
		e.SetError(err)
	}
}

// WriteBytes copies v to the output verbatim.
func (e *Encoder) WriteBytes(v []byte) {
	if _, err := e.out.Write(v); err != nil {
		e.SetError(err)
	}
}

// Decoder deserializes low-level DICOM primitives from an io.Reader.
type Decoder struct {
	in        *bufio.Reader
	err       error
	byteorder binary.ByteOrder
	implicit  IsImplicitVR

	limit int64
	pos   int64

	codingSystem CodingSystem

	oldTransferSyntaxes []transferSyntaxStackEntry
	stateStack          []stackEntry
}

// NewDecoder creates a decoder reading from in, starting with the given
// byte order and VR mode. The caller should bound malicious inputs with
// PushLimit rather than relying on io.EOF alone.
func NewDecoder(in io.Reader, byteorder binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	return &Decoder{
		in:        bufio.NewReader(in),
		byteorder: byteorder,
		implicit:  implicit,
		limit:     math.MaxInt64,
	}
}

// NewBytesDecoder creates a decoder over an in-memory byte slice.
func NewBytesDecoder(data []byte, byteorder binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	return NewDecoder(bytes.NewReader(data), byteorder, implicit)
}

// SetError records err as UnexpectedEndOfData-style context: once set, it
// is annotated with the current byte offset and never overwritten by a
// later, possibly less informative, error.
func (d *Decoder) SetError(err error) {
	if err == nil || d.err != nil {
		return
	}
	if err != io.EOF {
		err = fmt.Errorf("%w (offset %d)", err, d.pos)
	}
	d.err = err
}

// SetErrorf is SetError with Printf-style formatting.
func (d *Decoder) SetErrorf(format string, args ...interface{}) {
	d.SetError(fmt.Errorf(format, args...))
}

// TransferSyntax returns the decoder's current byte order and VR mode.
func (d *Decoder) TransferSyntax() (byteorder binary.ByteOrder, implicit IsImplicitVR) {
	return d.byteorder, d.implicit
}

// PushTransferSyntax temporarily switches decoding mode.
func (d *Decoder) PushTransferSyntax(byteorder binary.ByteOrder, implicit IsImplicitVR) {
	d.oldTransferSyntaxes = append(d.oldTransferSyntaxes, transferSyntaxStackEntry{d.byteorder, d.implicit})
	d.byteorder = byteorder
	d.implicit = implicit
}

// PushTransferSyntaxByUID is PushTransferSyntax given a transfer syntax UID.
func (d *Decoder) PushTransferSyntaxByUID(uid string) {
	endian, implicit, err := ParseTransferSyntaxUID(uid)
	if err != nil {
		d.SetError(err)
		return
	}
	d.PushTransferSyntax(endian, implicit)
}

// SetCodingSystem installs the []byte->string decoders used for text VRs,
// as selected by a SpecificCharacterSet element (spec.md 4.D).
func (d *Decoder) SetCodingSystem(cs CodingSystem) { d.codingSystem = cs }

// PopTransferSyntax undoes the last PushTransferSyntax.
func (d *Decoder) PopTransferSyntax() {
	last := len(d.oldTransferSyntaxes) - 1
	e := d.oldTransferSyntaxes[last]
	d.byteorder = e.byteorder
	d.implicit = e.implicit
	d.oldTransferSyntaxes = d.oldTransferSyntaxes[:last]
}

// PushLimit temporarily narrows the readable region to the next n bytes
// and clears the sticky error; PopLimit restores the limit, and restores
// the saved error only if one was saved (an error set inside the nested
// region is otherwise kept). Used to bound a
// defined-length element, item or sequence so a malformed nested value
// cannot read past its own framing.
func (d *Decoder) PushLimit(n int64) {
	newLimit := d.pos + n
	if newLimit > d.limit {
		d.SetError(fmt.Errorf("dicomio: limit %d exceeds remaining buffer by %d bytes", n, newLimit-d.limit))
		newLimit = d.pos
	}
	d.stateStack = append(d.stateStack, stackEntry{limit: d.limit, err: d.err})
	d.limit = newLimit
	d.err = nil
}

// PopLimit restores the limit saved by the matching PushLimit, and the
// saved error if it was non-nil; otherwise any error set since PushLimit
// stays in place. If
// the nested read left bytes unconsumed, they are skipped first — this is
// the parser's "advance to next plausible tag boundary" tolerance for
// malformed nested values (spec.md 4.C, tolerant mode).
func (d *Decoder) PopLimit() {
	if d.pos < d.limit {
		d.Skip(int(d.limit - d.pos))
	}
	last := len(d.stateStack) - 1
	d.limit = d.stateStack[last].limit
	if d.stateStack[last].err != nil {
		d.err = d.stateStack[last].err
	}
	d.stateStack = d.stateStack[:last]
}

// Error returns the sticky error set by SetError, if any.
func (d *Decoder) Error() error { return d.err }

// Finish reports any error encountered, or an error if unconsumed input
// remains under the decoder's outermost limit.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if !d.EOF() {
		return fmt.Errorf("dicomio: %d unparsed byte(s) remain", d.len())
	}
	return nil
}

// Read implements io.Reader, bounded by the decoder's current limit.
func (d *Decoder) Read(p []byte) (int, error) {
	desired := d.len()
	if desired == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	if desired < int64(len(p)) {
		p = p[:desired]
	}
	n, err := d.in.Read(p)
	if n > 0 {
		d.pos += int64(n)
	}
	return n, err
}

// EOF reports whether no more data can be read: the limit has been reached,
// a sticky error is set, or the underlying reader is exhausted.
func (d *Decoder) EOF() bool {
	if d.err != nil {
		return true
	}
	if d.limit-d.pos <= 0 {
		return true
	}
	data, _ := d.in.Peek(1)
	return len(data) == 0
}

// BytesRead returns the cumulative number of bytes read so far.
func (d *Decoder) BytesRead() int64 { return d.pos }

func (d *Decoder) len() int64 { return d.limit - d.pos }

// Remaining returns the number of bytes readable before the current limit.
func (d *Decoder) Remaining() int64 { return d.len() }

func (d *Decoder) ReadByte() (v byte) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
		return 0
	}
	return v
}

func (d *Decoder) ReadUInt32() (v uint32) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadInt32() (v int32) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadUInt16() (v uint16) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadInt16() (v int16) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadFloat32() (v float32) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadFloat64() (v float64) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func internalReadString(d *Decoder, sd *encoding.Decoder, length int) string {
	raw := d.ReadBytes(length)
	if len(raw) == 0 {
		return ""
	}
	if sd == nil {
		return string(raw)
	}
	decoded, err := sd.Bytes(raw)
	if err != nil {
		d.SetError(err)
		return ""
	}
	return string(decoded)
}

// ReadStringWithCodingSystem reads length raw bytes and decodes them with
// the coding-system component selected by csType (spec.md 4.D: Person Name
// components may use distinct alphabetic/ideographic/phonetic decoders).
func (d *Decoder) ReadStringWithCodingSystem(csType CodingSystemType, length int) string {
	var sd *encoding.Decoder
	switch csType {
	case AlphabeticCodingSystem:
		sd = d.codingSystem.Alphabetic
	case IdeographicCodingSystem:
		sd = d.codingSystem.Ideographic
	case PhoneticCodingSystem:
		sd = d.codingSystem.Phonetic
	default:
		panic(csType)
	}
	return internalReadString(d, sd, length)
}

// ReadString reads length raw bytes and decodes them with the default
// (ideographic) coding-system decoder.
func (d *Decoder) ReadString(length int) string {
	return internalReadString(d, d.codingSystem.Ideographic, length)
}

// ReadBytes reads exactly length raw bytes, or sets an error and returns
// nil if fewer than that remain (spec.md 4.B: UnexpectedEndOfData).
func (d *Decoder) ReadBytes(length int) []byte {
	if d.len() < int64(length) {
		d.SetErrorf("dicomio: requested %d byte(s), only %d remain", length, d.len())
		return nil
	}
	v := make([]byte, length)
	remaining := v
	for len(remaining) > 0 {
		n, err := d.Read(remaining)
		if err != nil {
			d.SetError(err)
			return nil
		}
		remaining = remaining[n:]
	}
	return v
}

// Skip advances past length bytes without retaining them.
func (d *Decoder) Skip(length int) {
	if d.len() < int64(length) {
		d.SetErrorf("dicomio: skip of %d byte(s) exceeds %d remaining", length, d.len())
		return
	}
	junkSize := 1 << 16
	if length < junkSize {
		junkSize = length
	}
	junk := make([]byte, junkSize)
	remaining := length
	for remaining > 0 {
		n := len(junk)
		if remaining < n {
			n = remaining
		}
		read, err := d.Read(junk[:n])
		if err != nil {
			d.SetError(err)
			return
		}
		remaining -= read
	}
}

// Peek returns up to n bytes without advancing the cursor.
func (d *Decoder) Peek(n int) ([]byte, error) {
	return d.in.Peek(n)
}

// DoAssert panics (via logrus, so it is logged before the crash) when
// condition is false. Reserved for internal invariant violations — never
// for malformed input, which must instead flow through SetError.
func DoAssert(condition bool, values ...interface{}) {
	if !condition {
		var s string
		for _, v := range values {
			s += fmt.Sprintf("%v", v)
		}
		logrus.Panic(s)
	}
}
