package decoder

import (
	"iter"

	"github.com/f1shl3gs/maxminddb/internal/mmdberrors"
)

// decoderOptions hold the per-Decoder tuning knobs.
type decoderOptions struct {
	interner StringInterner
}

// Option configures a Decoder created by NewDecoder.
type Option func(*decoderOptions)

// WithInterner makes a Decoder route every ReadString call through interner
// instead of allocating a fresh string for each occurrence. Record types that
// implement Unmarshaler and read highly repetitive fields, such as ISO
// country codes or locale names, benefit most.
func WithInterner(interner StringInterner) Option {
	return func(o *decoderOptions) {
		o.interner = interner
	}
}

// Decoder reads a single value out of the data section without paying for
// reflection. It is handed to types implementing Unmarshaler so they can
// pull out only the fields they care about.
//
// A Decoder follows at most one pointer indirection when reading a scalar:
// the control byte at offset is decoded, and if it turns out to be a
// pointer, the pointer's target is decoded once more. This mirrors how
// libmaxminddb treats pointers found while walking a value a caller already
// knows the shape of, and keeps a malicious or corrupt database from making
// a single field read chase an arbitrarily long pointer chain.
type Decoder struct {
	dd       *DataDecoder
	offset   uint
	interner StringInterner

	// hasNextOffset is set once a Read* call has advanced the decoder past
	// the value it started on.
	hasNextOffset bool
}

// NewDecoder creates a Decoder that reads the value at offset.
func NewDecoder(dd DataDecoder, offset uint, opts ...Option) *Decoder {
	var o decoderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder{dd: &dd, offset: offset, interner: o.interner}
}

// getNextOffset returns the offset following the value this Decoder was
// constructed over. It is used by the reflection decoder to resume decoding
// after an Unmarshaler has consumed a value. If the Unmarshaler never read
// anything, the decoder is still positioned on the value itself and it must
// be skipped structurally.
func (d *Decoder) getNextOffset() (uint, error) {
	if !d.hasNextOffset {
		return d.dd.NextValueOffset(d.offset, 1)
	}
	return d.offset, nil
}

// resolve decodes the control byte at the Decoder's current offset,
// following exactly one pointer indirection if the value turns out to be a
// pointer. It returns the resolved kind, the declared size of the value, the
// offset at which the value's payload begins, and the offset of whatever
// follows the token that was actually read from the buffer (the pointer
// itself if one was followed, or the value otherwise).
func (d *Decoder) resolve() (kind Kind, size, valueOffset, tokenEnd uint, followedPointer bool, err error) {
	kind, size, dataOffset, err := d.dd.DecodeCtrlData(d.offset)
	if err != nil {
		return 0, 0, 0, 0, false, err
	}

	if kind != KindPointer {
		return kind, size, dataOffset, dataOffset, false, nil
	}

	pointer, afterPointer, err := d.dd.DecodePointer(size, dataOffset)
	if err != nil {
		return 0, 0, 0, 0, false, err
	}

	targetKind, targetSize, targetOffset, err := d.dd.DecodeCtrlData(pointer)
	if err != nil {
		return 0, 0, 0, 0, false, err
	}
	if targetKind == KindPointer {
		return 0, 0, 0, 0, false, mmdberrors.NewInvalidDatabaseError(
			"database contains a pointer chain longer than one hop",
		)
	}

	return targetKind, targetSize, targetOffset, afterPointer, true, nil
}

func (d *Decoder) advance(valueOffset, consumed, tokenEnd uint, followedPointer bool) {
	d.hasNextOffset = true
	if followedPointer {
		d.offset = tokenEnd
		return
	}
	d.offset = valueOffset + consumed
}

// PeekKind reports the Kind of the value at the Decoder's current position
// without consuming it.
func (d *Decoder) PeekKind() (Kind, error) {
	kind, _, _, _, _, err := d.resolve()
	return kind, err
}

// ReadBool decodes a boolean value.
func (d *Decoder) ReadBool() (bool, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return false, d.wrapError(err)
	}
	if kind != KindBool {
		return false, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Bool, got %s", kind))
	}
	val, _ := decodeBool(size, valueOffset)
	d.advance(valueOffset, 0, tokenEnd, followedPointer)
	return val, nil
}

// ReadString decodes a string value.
func (d *Decoder) ReadString() (string, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return "", d.wrapError(err)
	}
	if kind != KindString {
		return "", d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected String, got %s", kind))
	}
	if d.interner != nil {
		if valueOffset+size > uint(len(d.dd.buffer)) {
			return "", d.wrapError(mmdberrors.NewOffsetError())
		}
		val := d.interner.InternAt(valueOffset, size, d.dd.buffer)
		d.advance(valueOffset, size, tokenEnd, followedPointer)
		return val, nil
	}

	val, newOffset, err := d.dd.DecodeString(size, valueOffset)
	if err != nil {
		return "", d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadBytes decodes a byte slice value.
func (d *Decoder) ReadBytes() ([]byte, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return nil, d.wrapError(err)
	}
	if kind != KindBytes {
		return nil, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Bytes, got %s", kind))
	}
	if buf := d.dd.Buffer(); valueOffset+size > uint(len(buf)) {
		return nil, d.wrapError(mmdberrors.NewInvalidDatabaseError(
			"byte slice of size %d at offset %d exceeds buffer length %d", size, valueOffset, len(buf),
		))
	}
	val, newOffset, err := d.dd.DecodeBytes(size, valueOffset)
	if err != nil {
		return nil, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadFloat32 decodes a 32-bit float value.
func (d *Decoder) ReadFloat32() (float32, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return 0, d.wrapError(err)
	}
	if kind != KindFloat32 {
		return 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Float32, got %s", kind))
	}
	val, newOffset, err := d.dd.DecodeFloat32(size, valueOffset)
	if err != nil {
		return 0, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadFloat64 decodes a 64-bit float value.
func (d *Decoder) ReadFloat64() (float64, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return 0, d.wrapError(err)
	}
	if kind != KindFloat64 {
		return 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Float64, got %s", kind))
	}
	val, newOffset, err := d.dd.DecodeFloat64(size, valueOffset)
	if err != nil {
		return 0, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadInt32 decodes a 32-bit signed integer value.
func (d *Decoder) ReadInt32() (int32, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return 0, d.wrapError(err)
	}
	if kind != KindInt32 {
		return 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Int32, got %s", kind))
	}
	val, newOffset, err := d.dd.DecodeInt32(size, valueOffset)
	if err != nil {
		return 0, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadUint16 decodes a 16-bit unsigned integer value.
func (d *Decoder) ReadUint16() (uint16, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return 0, d.wrapError(err)
	}
	if kind != KindUint16 {
		return 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Uint16, got %s", kind))
	}
	val, newOffset, err := d.dd.DecodeUint16(size, valueOffset)
	if err != nil {
		return 0, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadUint32 decodes a 32-bit unsigned integer value.
func (d *Decoder) ReadUint32() (uint32, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return 0, d.wrapError(err)
	}
	if kind != KindUint32 {
		return 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Uint32, got %s", kind))
	}
	val, newOffset, err := d.dd.DecodeUint32(size, valueOffset)
	if err != nil {
		return 0, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadUint64 decodes a 64-bit unsigned integer value.
func (d *Decoder) ReadUint64() (uint64, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return 0, d.wrapError(err)
	}
	if kind != KindUint64 {
		return 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Uint64, got %s", kind))
	}
	val, newOffset, err := d.dd.DecodeUint64(size, valueOffset)
	if err != nil {
		return 0, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return val, nil
}

// ReadUint128 decodes a 128-bit unsigned integer value, returned as a
// hi/lo uint64 pair to avoid allocating a big.Int when callers only need to
// inspect or re-encode the raw bits.
func (d *Decoder) ReadUint128() (hi, lo uint64, err error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return 0, 0, d.wrapError(err)
	}
	if kind != KindUint128 {
		return 0, 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Uint128, got %s", kind))
	}
	hi, lo, newOffset, err := d.dd.decodeUint128(size, valueOffset)
	if err != nil {
		return 0, 0, d.wrapError(err)
	}
	d.advance(valueOffset, newOffset-valueOffset, tokenEnd, followedPointer)
	return hi, lo, nil
}

// ReadMap returns an iterator over the key/value pairs of the map value at
// the Decoder's current position, along with its size. Each iteration
// step decodes the key and positions the Decoder so the paired Read* call
// decodes the associated value. The Decoder must not be reused for
// anything else until the iterator has been fully drained.
func (d *Decoder) ReadMap() (iter.Seq2[[]byte, error], uint, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return nil, 0, d.wrapError(err)
	}
	if kind != KindMap {
		return nil, 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Map, got %s", kind))
	}

	// Once drained, the cursor is already past the value; for an empty map it
	// is there before the first iteration.
	d.hasNextOffset = true
	d.offset = valueOffset

	seq := func(yield func([]byte, error) bool) {
		for i := uint(0); i < size; i++ {
			key, newOffset, err := d.dd.DecodeKey(d.offset)
			if err != nil {
				yield(nil, d.wrapError(err))
				return
			}
			d.offset = newOffset
			if !yield(key, nil) {
				return
			}
		}
		if followedPointer {
			d.offset = tokenEnd
		}
	}

	return seq, size, nil
}

// SkipValue advances the Decoder past the value at its current position
// without decoding it. It is used by Unmarshaler implementations that only
// care about a subset of a map's keys.
func (d *Decoder) SkipValue() error {
	newOffset, err := d.dd.NextValueOffset(d.offset, 1)
	if err != nil {
		return d.wrapError(err)
	}
	d.offset = newOffset
	d.hasNextOffset = true
	return nil
}

// ReadSlice returns an iterator with one step per element of the slice value
// at the Decoder's current position, along with its size. Each iteration
// step positions the Decoder so the paired Read* call decodes the element.
func (d *Decoder) ReadSlice() (iter.Seq[error], uint, error) {
	kind, size, valueOffset, tokenEnd, followedPointer, err := d.resolve()
	if err != nil {
		return nil, 0, d.wrapError(err)
	}
	if kind != KindSlice {
		return nil, 0, d.wrapError(mmdberrors.NewInvalidDataTypeError(int(kind), "expected Slice, got %s", kind))
	}

	d.hasNextOffset = true
	d.offset = valueOffset

	seq := func(yield func(error) bool) {
		for i := uint(0); i < size; i++ {
			if !yield(nil) {
				return
			}
		}
		if followedPointer {
			d.offset = tokenEnd
		}
	}

	return seq, size, nil
}
