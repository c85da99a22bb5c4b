package decoder

import "github.com/f1shl3gs/maxminddb/internal/mmdberrors"

// This file adds lowercase convenience wrappers around DataDecoder's
// exported Decode* primitives. ReflectionDecoder's unmarshaling code reads
// more naturally calling d.decodeString, d.decodePointer, and so on, mirroring
// the private helpers encoding/json keeps next to its exported decoder.

func (d *DataDecoder) decodeCtrlData(offset uint) (Kind, uint, uint, error) {
	return d.DecodeCtrlData(offset)
}

func (d *DataDecoder) decodePointer(size, offset uint) (uint, uint, error) {
	return d.DecodePointer(size, offset)
}

func (d *DataDecoder) decodeKey(offset uint) ([]byte, uint, error) {
	return d.DecodeKey(offset)
}

func (d *DataDecoder) nextValueOffset(offset, numberToSkip uint) (uint, error) {
	return d.NextValueOffset(offset, numberToSkip)
}

func (d *DataDecoder) decodeBool(size, offset uint) (bool, uint, error) {
	v, newOffset := decodeBool(size, offset)
	return v, newOffset, nil
}

func (d *DataDecoder) decodeBytes(size, offset uint) ([]byte, uint, error) {
	return d.DecodeBytes(size, offset)
}

func (d *DataDecoder) decodeFloat32(size, offset uint) (float32, uint, error) {
	return d.DecodeFloat32(size, offset)
}

func (d *DataDecoder) decodeFloat64(size, offset uint) (float64, uint, error) {
	return d.DecodeFloat64(size, offset)
}

func (d *DataDecoder) decodeInt32(size, offset uint) (int32, uint, error) {
	return d.DecodeInt32(size, offset)
}

func (d *DataDecoder) decodeString(size, offset uint) (string, uint, error) {
	return d.DecodeString(size, offset)
}

func (d *DataDecoder) decodeUint16(size, offset uint) (uint16, uint, error) {
	return d.DecodeUint16(size, offset)
}

func (d *DataDecoder) decodeUint32(size, offset uint) (uint32, uint, error) {
	return d.DecodeUint32(size, offset)
}

func (d *DataDecoder) decodeUint64(size, offset uint) (uint64, uint, error) {
	return d.DecodeUint64(size, offset)
}

// decodeUint128 returns the 128-bit unsigned integer at offset as a hi/lo
// uint64 pair rather than a *big.Int, avoiding an allocation when the caller
// only needs to inspect or re-encode the raw bits.
func (d *DataDecoder) decodeUint128(size, offset uint) (hi, lo uint64, newOffset uint, err error) {
	if size > 16 {
		return 0, 0, 0, mmdberrors.NewInvalidDatabaseError(
			"uint128 of size %d exceeds the type's 16-byte width", size)
	}
	buf := d.Buffer()
	if offset+size > uint(len(buf)) {
		return 0, 0, 0, mmdberrors.NewOffsetError()
	}
	newOffset = offset + size
	for _, b := range buf[offset:newOffset] {
		hi = (hi << 8) | (lo >> 56)
		lo = (lo << 8) | uint64(b)
	}
	return hi, lo, newOffset, nil
}
