// Package mmdbdata provides types and interfaces for working with MaxMind DB data.
package mmdbdata

import "github.com/f1shl3gs/maxminddb/internal/decoder"

// Kind represents MMDB data kinds.
type Kind = decoder.Kind

// Decoder provides methods for decoding MMDB data.
type Decoder = decoder.Decoder

// Unmarshaler is implemented by types that know how to decode their own MMDB
// representation without going through reflection. Reader.Lookup and
// Result.Decode use it automatically when the target value implements it.
type Unmarshaler = decoder.Unmarshaler

// StrictFields, embedded anonymously in a struct decoded through the
// reflective Decoder, rejects any MAP key that does not match a field
// instead of silently skipping it. The geoip package embeds this in every
// record schema.
type StrictFields = decoder.StrictFields

// Kind constants for MMDB data.
const (
	KindExtended  = decoder.KindExtended
	KindPointer   = decoder.KindPointer
	KindString    = decoder.KindString
	KindFloat64   = decoder.KindFloat64
	KindBytes     = decoder.KindBytes
	KindUint16    = decoder.KindUint16
	KindUint32    = decoder.KindUint32
	KindMap       = decoder.KindMap
	KindInt32     = decoder.KindInt32
	KindUint64    = decoder.KindUint64
	KindUint128   = decoder.KindUint128
	KindSlice     = decoder.KindSlice
	KindContainer = decoder.KindContainer
	KindEndMarker = decoder.KindEndMarker
	KindBool      = decoder.KindBool
	KindFloat32   = decoder.KindFloat32
)
