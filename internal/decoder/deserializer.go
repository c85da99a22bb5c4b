package decoder

import "math/big"

// Deserializer receives decoded primitive values while the data section is
// walked structurally. It mirrors the shape of the values produced by
// DecodeCtrlData without requiring a Go value to be allocated for each one,
// which lets callers such as the search-tree verifier and custom
// unmarshalers skip or validate data without paying reflection cost.
type Deserializer interface {
	// ShouldSkip is consulted before a value at offset is decoded. Returning
	// true skips the value entirely.
	ShouldSkip(offset uintptr) (bool, error)
	StartMap(size uint) error
	StartSlice(size uint) error
	End() error
	Bool(v bool) error
	String(v string) error
	Float32(v float32) error
	Float64(v float64) error
	Int32(v int32) error
	Uint16(v uint16) error
	Uint32(v uint32) error
	Uint64(v uint64) error
	Uint128(v *big.Int) error
	Bytes(v []byte) error
}

// deserializer is kept as an unexported alias so the call sites in
// data_decoder.go that predate the exported name keep working unchanged.
type deserializer = Deserializer

// DecodeToDeserializer walks the value at offset, feeding each primitive to
// dser instead of decoding into a reflect.Value. The returned offset points
// at the value following the one just walked. getNext only matters when
// dser.ShouldSkip skips the value: the following offset is then returned if
// getNext is true, and 0 otherwise.
func (d *ReflectionDecoder) DecodeToDeserializer(
	offset uint,
	dser Deserializer,
	depth int,
	getNext bool,
) (uint, error) {
	return d.decodeToDeserializer(offset, dser, depth, getNext)
}
