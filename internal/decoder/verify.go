package decoder

import (
	"math/big"

	"github.com/f1shl3gs/maxminddb/internal/mmdberrors"
)

// nullDeserializer discards every value it is handed. Feeding it a value
// forces the same structural validation decodeToDeserializer performs
// (bounds checks, depth limits, known type codes) without allocating a
// result.
type nullDeserializer struct{}

func (nullDeserializer) ShouldSkip(uintptr) (bool, error) { return false, nil }
func (nullDeserializer) StartMap(uint) error              { return nil }
func (nullDeserializer) StartSlice(uint) error             { return nil }
func (nullDeserializer) End() error                        { return nil }
func (nullDeserializer) Bool(bool) error                   { return nil }
func (nullDeserializer) String(string) error               { return nil }
func (nullDeserializer) Float32(float32) error             { return nil }
func (nullDeserializer) Float64(float64) error             { return nil }
func (nullDeserializer) Int32(int32) error                 { return nil }
func (nullDeserializer) Uint16(uint16) error                { return nil }
func (nullDeserializer) Uint32(uint32) error                { return nil }
func (nullDeserializer) Uint64(uint64) error                { return nil }
func (nullDeserializer) Uint128(*big.Int) error             { return nil }
func (nullDeserializer) Bytes([]byte) error                 { return nil }

// VerifyDataSection walks every data section offset reachable from the
// search tree, as collected by a full Networks traversal, and confirms each
// one decodes to a structurally valid value.
func (d *ReflectionDecoder) VerifyDataSection(offsets map[uint]bool) error {
	for offset := range offsets {
		if _, err := d.decodeToDeserializer(offset, nullDeserializer{}, 0, false); err != nil {
			return mmdberrors.NewInvalidDatabaseError(
				"data section entry at offset %d is invalid: %v", offset, err,
			)
		}
	}
	return nil
}
