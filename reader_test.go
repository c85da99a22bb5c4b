package maxminddb

import (
	"math/rand"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile(file string) string {
	return filepath.Join("test-data/test-data", file)
}

func checkMetadata(t *testing.T, reader *Reader, ipVersion, recordSize uint) {
	t.Helper()

	metadata := reader.Metadata

	assert.Equal(t, uint(2), metadata.BinaryFormatMajorVersion)
	assert.Equal(t, uint(0), metadata.BinaryFormatMinorVersion)
	assert.NotZero(t, metadata.BuildEpoch)
	assert.Equal(t, "Test", metadata.DatabaseType)

	assert.Equal(t, "Test Database", metadata.Description["en"])
	assert.Equal(t, "Freitext-Datenbank", metadata.Description["de"])

	assert.Equal(t, ipVersion, metadata.IPVersion)
	assert.Equal(t, []string{"en", "zh"}, metadata.Languages)
	assert.Positive(t, metadata.NodeCount)
	assert.Equal(t, recordSize, metadata.RecordSize)
}

func checkIpv4(t *testing.T, reader *Reader) {
	t.Helper()

	for i := range uint(6) {
		address := "1.1.1." + []string{"1", "2", "4", "8", "16", "32"}[i]
		ip := netip.MustParseAddr(address)

		var result struct {
			IP string `maxminddb:"ip"`
		}
		err := reader.Lookup(ip).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, address, result.IP)
	}

	pairs := map[string]string{
		"1.1.1.3":  "1.1.1.2",
		"1.1.1.5":  "1.1.1.4",
		"1.1.1.7":  "1.1.1.4",
		"1.1.1.9":  "1.1.1.8",
		"1.1.1.15": "1.1.1.8",
		"1.1.1.17": "1.1.1.16",
		"1.1.1.31": "1.1.1.16",
	}

	for keyAddress, valueAddress := range pairs {
		var result struct {
			IP string `maxminddb:"ip"`
		}
		err := reader.Lookup(netip.MustParseAddr(keyAddress)).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, valueAddress, result.IP)
	}
}

func checkIpv6(t *testing.T, reader *Reader) {
	t.Helper()

	subnets := []string{"::1:ffff:ffff", "::2:0:0", "::2:0:40", "::2:0:50", "::2:0:58"}
	for _, address := range subnets {
		var result struct {
			IP string `maxminddb:"ip"`
		}
		err := reader.Lookup(netip.MustParseAddr(address)).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, address, result.IP)
	}

	pairs := map[string]string{
		"::2:0:1":  "::2:0:0",
		"::2:0:33": "::2:0:0",
		"::2:0:39": "::2:0:0",
		"::2:0:41": "::2:0:40",
		"::2:0:49": "::2:0:40",
		"::2:0:52": "::2:0:50",
		"::2:0:57": "::2:0:50",
		"::2:0:59": "::2:0:58",
	}

	for keyAddress, valueAddress := range pairs {
		var result struct {
			IP string `maxminddb:"ip"`
		}
		err := reader.Lookup(netip.MustParseAddr(keyAddress)).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, valueAddress, result.IP)
	}
}

func testFileForSizeAndVersion(recordSize, ipVersion uint) string {
	return testFile(
		"MaxMind-DB-test-ipv" +
			map[uint]string{4: "4", 6: "6"}[ipVersion] + "-" +
			map[uint]string{24: "24", 28: "28", 32: "32"}[recordSize] + ".mmdb",
	)
}

func TestReader(t *testing.T) {
	for _, recordSize := range []uint{24, 28, 32} {
		for _, ipVersion := range []uint{4, 6} {
			reader, err := Open(testFileForSizeAndVersion(recordSize, ipVersion))
			require.NoError(t, err, "unexpected error while opening database: %v", err)

			checkMetadata(t, reader, ipVersion, recordSize)

			if ipVersion == 4 {
				checkIpv4(t, reader)
			} else {
				checkIpv6(t, reader)
			}

			require.NoError(t, reader.Close())
		}
	}
}

func TestReaderBytes(t *testing.T) {
	for _, recordSize := range []uint{24, 28, 32} {
		for _, ipVersion := range []uint{4, 6} {
			data, err := os.ReadFile(testFileForSizeAndVersion(recordSize, ipVersion))
			require.NoError(t, err)

			reader, err := FromBytes(data)
			require.NoError(t, err, "unexpected error while opening database: %v", err)

			checkMetadata(t, reader, ipVersion, recordSize)

			if ipVersion == 4 {
				checkIpv4(t, reader)
			} else {
				checkIpv6(t, reader)
			}

			require.NoError(t, reader.Close())
		}
	}
}

func TestASNDatabaseMetadata(t *testing.T) {
	reader, err := Open(testFile("GeoLite2-ASN-Test.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	metadata := reader.Metadata
	assert.Equal(t, uint(2), metadata.BinaryFormatMajorVersion)
	assert.Equal(t, "GeoLite2-ASN", metadata.DatabaseType)
	assert.Equal(t, []string{"en"}, metadata.Languages)
	assert.Equal(t, uint(6), metadata.IPVersion)
	assert.Equal(t, uint(28), metadata.RecordSize)
	assert.Positive(t, metadata.NodeCount)
	assert.Positive(t, metadata.BuildEpoch)
	assert.False(t, metadata.BuildTime().IsZero())
}

func TestNetworkLookup(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-ipv4-24.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	result := reader.Lookup(netip.MustParseAddr("1.1.1.3"))
	require.True(t, result.Found())

	network := result.Network()
	assert.Equal(t, "1.1.1.2/31", network.String())

	var record struct {
		IP string `maxminddb:"ip"`
	}
	require.NoError(t, result.Decode(&record))
	assert.Equal(t, "1.1.1.2", record.IP)
}

func TestDecodingToInterface(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-decoder.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	var result any
	err = reader.Lookup(netip.MustParseAddr("::1.1.1.0")).Decode(&result)
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["boolean"])
	assert.Equal(t, "unicode! ☯ - ♫", m["utf8_string"])
}

type testType struct {
	Array      []uint         `maxminddb:"array"`
	Boolean    bool           `maxminddb:"boolean"`
	Bytes      []byte         `maxminddb:"bytes"`
	Double     float64        `maxminddb:"double"`
	Float      float32        `maxminddb:"float"`
	Int32      int32          `maxminddb:"int32"`
	Map        map[string]any `maxminddb:"map"`
	Uint16     uint16         `maxminddb:"uint16"`
	Uint32     uint32         `maxminddb:"uint32"`
	Uint64     uint64         `maxminddb:"uint64"`
	Utf8String string         `maxminddb:"utf8_string"`
}

func TestType(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-decoder.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	var result testType
	err = reader.Lookup(netip.MustParseAddr("::1.1.1.0")).Decode(&result)
	require.NoError(t, err)

	assert.Equal(t, true, result.Boolean)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2a}, result.Bytes)
	assert.InEpsilon(t, 42.123456, result.Double, 1e-9)
	assert.InEpsilon(t, float32(1.1), result.Float, 1e-5)
	assert.Equal(t, int32(-268435456), result.Int32)
	assert.Equal(t, uint16(100), result.Uint16)
	assert.Equal(t, uint32(268435456), result.Uint32)
	assert.Equal(t, uint64(1152921504606846976), result.Uint64)
	assert.Equal(t, "unicode! ☯ - ♫", result.Utf8String)
}

func TestComplexStructWithNestingAndPointer(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-nested.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	var result any
	err = reader.Lookup(netip.MustParseAddr("1.1.1.1")).Decode(&result)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestNestedOffsetDecode(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-decoder.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	result := reader.Lookup(netip.MustParseAddr("::1.1.1.0"))
	require.True(t, result.Found())

	offset := result.RecordOffset()

	var record map[string]any
	err = reader.LookupOffset(offset).Decode(&record)
	require.NoError(t, err)
	assert.Equal(t, true, record["boolean"])
}

func TestDecodingUint16IntoInt(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-decoder.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	var result struct {
		Uint16 int `maxminddb:"uint16"`
	}
	err = reader.Lookup(netip.MustParseAddr("::1.1.1.0")).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Uint16)
}

func TestIpv6inIpv4(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-ipv4-24.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	result := reader.Lookup(netip.MustParseAddr("::1:ffff:ffff"))
	require.Error(t, result.Err())
}

func TestBrokenDoubleDatabase(t *testing.T) {
	reader, err := Open(testFile("GeoIP2-City-Test-Broken-Double-Format.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	var result any
	err = reader.Lookup(netip.MustParseAddr("2001:220::")).Decode(&result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestOpenBrokenSearchTreeDatabase(t *testing.T) {
	_, err := Open(testFile("MaxMind-DB-test-broken-search-tree-24.mmdb"))
	require.NoError(t, err)
}

func TestMissingDatabase(t *testing.T) {
	_, err := Open(testFile("GeoIP2-City-Test-Invalid.mmdb"))
	require.Error(t, err)
}

func TestNonDatabase(t *testing.T) {
	_, err := Open(testFile("README.md"))
	require.Error(t, err)
}

func TestDecodingToNonPointer(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-decoder.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	var result map[string]any
	err = reader.Lookup(netip.MustParseAddr("::1.1.1.0")).Decode(result)
	require.Error(t, err)
}

func TestNilLookup(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-decoder.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	var result any
	err = reader.Lookup(netip.Addr{}).Decode(&result)
	require.Error(t, err)
}

func TestUsingClosedDatabase(t *testing.T) {
	reader, err := Open(testFile("MaxMind-DB-test-decoder.mmdb"))
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	var result any
	err = reader.Lookup(netip.MustParseAddr("::1.1.1.0")).Decode(&result)
	require.Error(t, err)

	err = reader.LookupOffset(0).Decode(&result)
	require.Error(t, err)
}

func TestDecodePath(t *testing.T) {
	reader, err := Open(testFile("GeoIP2-City-Test.mmdb"))
	require.NoError(t, err)
	defer reader.Close()

	result := reader.Lookup(netip.MustParseAddr("81.2.69.142"))
	require.NoError(t, result.Err())

	var isoCode string
	require.NoError(t, result.DecodePath(&isoCode, "country", "iso_code"))
	assert.Equal(t, "GB", isoCode)

	var cityNameEN string
	require.NoError(t, result.DecodePath(&cityNameEN, "city", "names", "en"))
	assert.Equal(t, "London", cityNameEN)

	var subdivisionISOCode string
	require.NoError(t, result.DecodePath(&subdivisionISOCode, "subdivisions", 0, "iso_code"))
	assert.Equal(t, "ENG", subdivisionISOCode)

	var missing string
	err = result.DecodePath(&missing, "subdivisions", 5, "iso_code")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func randomIPv4Address(r *rand.Rand) netip.Addr {
	n := r.Uint32()
	return netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
}

func BenchmarkInterfaceLookup(b *testing.B) {
	db, err := Open(testFile("GeoIP2-City-Test.mmdb"))
	require.NoError(b, err)
	defer db.Close()

	b.ReportAllocs()
	r := rand.New(rand.NewSource(0))

	for i := 0; i < b.N; i++ {
		ip := randomIPv4Address(r)
		var result any
		if err := db.Lookup(ip).Decode(&result); err != nil {
			b.Fatal(err)
		}
	}
}

type fullCity struct {
	City struct {
		GeoNameID uint              `maxminddb:"geoname_id"`
		Names     map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Continent struct {
		Code      string            `maxminddb:"code"`
		GeoNameID uint              `maxminddb:"geoname_id"`
		Names     map[string]string `maxminddb:"names"`
	} `maxminddb:"continent"`
	Country struct {
		GeoNameID         uint              `maxminddb:"geoname_id"`
		IsInEuropeanUnion bool              `maxminddb:"is_in_european_union"`
		IsoCode           string            `maxminddb:"iso_code"`
		Names             map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	Location struct {
		AccuracyRadius uint16  `maxminddb:"accuracy_radius"`
		Latitude       float64 `maxminddb:"latitude"`
		Longitude      float64 `maxminddb:"longitude"`
		MetroCode      uint    `maxminddb:"metro_code"`
		TimeZone       string  `maxminddb:"time_zone"`
	} `maxminddb:"location"`
	Postal struct {
		Code string `maxminddb:"code"`
	} `maxminddb:"postal"`
	RegisteredCountry struct {
		GeoNameID uint              `maxminddb:"geoname_id"`
		IsoCode   string            `maxminddb:"iso_code"`
		Names     map[string]string `maxminddb:"names"`
	} `maxminddb:"registered_country"`
	Subdivisions []struct {
		GeoNameID uint              `maxminddb:"geoname_id"`
		IsoCode   string            `maxminddb:"iso_code"`
		Names     map[string]string `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
}

func BenchmarkCityLookup(b *testing.B) {
	db, err := Open(testFile("GeoIP2-City-Test.mmdb"))
	require.NoError(b, err)
	defer db.Close()

	b.ReportAllocs()
	r := rand.New(rand.NewSource(0))

	for i := 0; i < b.N; i++ {
		ip := randomIPv4Address(r)
		var result fullCity
		if err := db.Lookup(ip).Decode(&result); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCountryCode(b *testing.B) {
	db, err := Open(testFile("GeoIP2-Country-Test.mmdb"))
	require.NoError(b, err)
	defer db.Close()

	b.ReportAllocs()
	r := rand.New(rand.NewSource(0))

	for i := 0; i < b.N; i++ {
		ip := randomIPv4Address(r)
		var result struct {
			Country struct {
				IsoCode string `maxminddb:"iso_code"`
			} `maxminddb:"country"`
		}
		if err := db.Lookup(ip).Decode(&result); err != nil {
			b.Fatal(err)
		}
	}
}
