package maxminddb

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1shl3gs/maxminddb/internal/mmdberrors"
)

func TestReadNodeBySize(t *testing.T) {
	tests := []struct {
		name       string
		recordSize uint
		node       []byte
		left       uint
		right      uint
	}{
		{
			name:       "24 bit",
			recordSize: 24,
			node:       []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
			left:       0x010203,
			right:      0x040506,
		},
		{
			name:       "28 bit",
			recordSize: 28,
			node:       []byte{0x01, 0x02, 0x03, 0xAB, 0x04, 0x05, 0x06},
			left:       0x0A010203,
			right:      0x0B040506,
		},
		{
			name:       "28 bit max",
			recordSize: 28,
			node:       []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			left:       0x0FFFFFFF,
			right:      0x0FFFFFFF,
		},
		{
			name:       "32 bit",
			recordSize: 32,
			node:       []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
			left:       0x01020304,
			right:      0x05060708,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.left, readNodeBySize(test.node, 0, 0, test.recordSize))
			assert.Equal(t, test.right, readNodeBySize(test.node, 0, 1, test.recordSize))
		})
	}
}

// emptyTreeDatabase builds a minimal database with node_count 0: a 16-byte
// separator, a data section containing whatever extra is passed in, and a
// metadata map declaring record_size 24.
func emptyTreeDatabase(dataSection []byte) []byte {
	buf := make([]byte, 16)
	buf = append(buf, dataSection...)
	buf = append(buf, metadataStartMarker...)

	// {"record_size": uint16(24), "node_count": uint16(0)}
	buf = append(buf, 0xE2)
	buf = append(buf, 0x4B)
	buf = append(buf, "record_size"...)
	buf = append(buf, 0xA1, 0x18)
	buf = append(buf, 0x4A)
	buf = append(buf, "node_count"...)
	buf = append(buf, 0xA0)

	return buf
}

// A marker byte sequence inside the data section must not be mistaken for
// the metadata marker; only the last occurrence is the real one.
func TestMetadataStartUsesLastMarker(t *testing.T) {
	decoy := append([]byte{}, metadataStartMarker...)
	decoy = append(decoy, "decoy data section entry"...)

	reader, err := FromBytes(emptyTreeDatabase(decoy))
	require.NoError(t, err)

	assert.Equal(t, uint(24), reader.Metadata.RecordSize)
	assert.Equal(t, uint(0), reader.Metadata.NodeCount)
}

func TestMetadataNotFound(t *testing.T) {
	_, err := FromBytes([]byte("definitely not a MaxMind DB file"))
	require.Error(t, err)

	var notFound mmdberrors.MetadataNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLookupOnEmptyTree(t *testing.T) {
	reader, err := FromBytes(emptyTreeDatabase(nil))
	require.NoError(t, err)

	result := reader.Lookup(netip.MustParseAddr("1.2.3.4"))
	require.NoError(t, result.Err())
	assert.False(t, result.Found())

	var v any
	require.NoError(t, result.Decode(&v))
	assert.Nil(t, v)
}
