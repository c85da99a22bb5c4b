package maxminddb

import (
	"bytes"
	"encoding/hex"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/f1shl3gs/maxminddb/internal/decoder"
)

// getAllTestMMDBFiles returns smaller MMDB files from the test-data
// directory. Large files are excluded to keep fuzzing fast.
func getAllTestMMDBFiles() []string {
	testDataDir := filepath.Join("test-data", "test-data")
	entries, err := os.ReadDir(testDataDir)
	if err != nil {
		return nil
	}

	var mmdbFiles []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mmdb" {
			continue
		}
		if info, err := entry.Info(); err == nil && info.Size() < 5000 {
			mmdbFiles = append(mmdbFiles, entry.Name())
		}
	}
	return mmdbFiles
}

// FuzzDatabase tests MMDB file parsing and lookup/decode end-to-end.
func FuzzDatabase(f *testing.F) {
	for _, filename := range getAllTestMMDBFiles() {
		if seedData, err := os.ReadFile(testFile(filename)); err == nil {
			f.Add(seedData)
		}
	}

	f.Add([]byte("not an mmdb file"))
	f.Add([]byte{0x00, 0x01, 0x02, 0x03})
	f.Add(bytes.Repeat([]byte{0xFF}, 1024))
	f.Add([]byte{})

	f.Fuzz(func(_ *testing.T, data []byte) {
		reader, err := FromBytes(data)
		if err != nil {
			return
		}
		defer func() { _ = reader.Close() }()

		result := reader.Lookup(netip.MustParseAddr("1.1.1.1"))
		if result.Err() == nil {
			var mapResult map[string]any
			_ = result.Decode(&mapResult)
			if mapResult != nil {
				var output any
				_ = result.DecodePath(&output, "country", "iso_code")
			}
		}
	})
}

// FuzzLookup isolates tree traversal from data decoding.
func FuzzLookup(f *testing.F) {
	for _, filename := range getAllTestMMDBFiles() {
		if seedData, err := os.ReadFile(testFile(filename)); err == nil {
			f.Add(seedData)
		}
	}

	f.Add([]byte("not an mmdb file"))
	f.Add([]byte{0x00, 0x01, 0x02, 0x03})
	f.Add(bytes.Repeat([]byte{0xFF}, 512))
	f.Add([]byte{})

	testIPs := []netip.Addr{
		netip.MustParseAddr("1.1.1.1"),
		netip.MustParseAddr("216.160.83.56"),
		netip.MustParseAddr("2.125.160.216"),
		netip.MustParseAddr("::1"),
		netip.MustParseAddr("2001:218::"),
	}

	f.Fuzz(func(_ *testing.T, data []byte) {
		reader, err := FromBytes(data)
		if err != nil {
			return
		}
		defer func() { _ = reader.Close() }()

		if reader.Metadata.DatabaseType == "" {
			return
		}

		for _, addr := range testIPs {
			result := reader.Lookup(addr)
			_ = result.Err()
			_ = result.Found()
		}
	})
}

// FuzzNetworks tests the Networks iterator against malformed databases.
func FuzzNetworks(f *testing.F) {
	for _, filename := range getAllTestMMDBFiles() {
		if seedData, err := os.ReadFile(testFile(filename)); err == nil {
			f.Add(seedData)
		}
	}

	f.Add([]byte("not an mmdb file"))
	f.Add([]byte{0x00, 0x01, 0x02, 0x03})
	f.Add(bytes.Repeat([]byte{0xFF}, 512))

	f.Fuzz(func(_ *testing.T, data []byte) {
		reader, err := FromBytes(data)
		if err != nil {
			return
		}
		defer func() { _ = reader.Close() }()

		if reader.Metadata.DatabaseType == "" {
			return
		}

		count := 0
		for result := range reader.Networks() {
			if result.Err() != nil || count >= 5 {
				break
			}
			count++
			var output any
			_ = result.Decode(&output)
		}
	})
}

// FuzzDecode exercises the reflective decoder directly against arbitrary
// data-section bytes, bypassing the search tree and metadata entirely.
func FuzzDecode(f *testing.F) {
	testHexStrings := []string{
		"680000000000000000", // float64 0.0
		"683FE0000000000000", // float64 0.5
		"040800000000",       // float32 0.0
		"04083F800000",       // float32 1.0
		"0401ffffffff",       // int32 -1
		"020101f4",           // int32 500
		"0007",               // bool false
		"0107",               // bool true
		"E0",                 // empty map
		"e142656e43466f6f",   // {"en": "Foo"}
		"020442656e427a68",   // ["en", "zh"]
		"43466f6f",           // "Foo"
	}

	for _, hexStr := range testHexStrings {
		if data, err := hex.DecodeString(hexStr); err == nil {
			f.Add(data)
		}
	}

	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	f.Add([]byte{0x42, 0x48, 0x65, 0x6C, 0x6C, 0x6F})
	f.Add([]byte{0x60, 0x41, 0x61, 0x41, 0x62})
	f.Add([]byte{0xE1, 0x41, 0x61, 0x41, 0x62})

	f.Fuzz(func(_ *testing.T, data []byte) {
		if len(data) == 0 {
			return
		}

		d := decoder.New(data)

		outputs := []any{
			new(map[string]any),
			new(string),
			new(int),
			new(uint32),
			new(float64),
			new(bool),
			new([]any),
			new([]string),
			new(map[string]string),
			new(any),
		}

		for _, output := range outputs {
			_ = d.Decode(0, output)
		}

		for offset := uint(1); offset < uint(len(data)) && offset < 10; offset++ {
			var mapOutput map[string]any
			_ = d.Decode(offset, &mapOutput)
		}
	})
}
