// Package geoip provides struct definitions for the record schemas MaxMind
// ships in its GeoIP2 and GeoLite2 databases. Each type is a plain value
// object decoded through the maxminddb package's reflective Decoder by way
// of `maxminddb` struct tags; none of them carry any database-specific
// decoding logic of their own.
//
// A typical lookup decodes directly into one of the top-level record types:
//
//	db, err := maxminddb.Open("GeoIP2-City.mmdb")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	var record geoip.CityRecord
//	err = db.Lookup(ip).Decode(&record)
//
// Every field is optional in the underlying database: a field absent from a
// particular record decodes to its Go zero value rather than producing an
// error. Every type here embeds mmdbdata.StrictFields, so the reverse is
// fatal: a MAP key present in the database with no matching field decodes
// to an UnknownFieldError.
package geoip

import "github.com/f1shl3gs/maxminddb/mmdbdata"

// Continent describes the continent containing a location.
type Continent struct {
	mmdbdata.StrictFields

	Code      string            `maxminddb:"code"`
	GeonameID uint              `maxminddb:"geoname_id"`
	Names     map[string]string `maxminddb:"names"`
}

// Country describes a country, either the country a location is in or the
// country a network is registered in.
type Country struct {
	mmdbdata.StrictFields

	GeonameID         uint              `maxminddb:"geoname_id"`
	IsInEuropeanUnion bool              `maxminddb:"is_in_european_union"`
	ISOCode           string            `maxminddb:"iso_code"`
	Names             map[string]string `maxminddb:"names"`
}

// RepresentedCountry describes the country represented by a military base or
// embassy that a location is associated with, such as for US military bases
// abroad.
type RepresentedCountry struct {
	mmdbdata.StrictFields

	GeonameID          uint              `maxminddb:"geoname_id"`
	IsInEuropeanUnion  bool              `maxminddb:"is_in_european_union"`
	ISOCode            string            `maxminddb:"iso_code"`
	Names              map[string]string `maxminddb:"names"`
	RepresentationType string            `maxminddb:"type"`
}

// City describes a city-level location.
type City struct {
	mmdbdata.StrictFields

	GeonameID uint              `maxminddb:"geoname_id"`
	Names     map[string]string `maxminddb:"names"`
}

// Subdivision describes a country subdivision, such as a state or province.
type Subdivision struct {
	mmdbdata.StrictFields

	GeonameID uint              `maxminddb:"geoname_id"`
	ISOCode   string            `maxminddb:"iso_code"`
	Names     map[string]string `maxminddb:"names"`
}

// Postal describes a postal code.
type Postal struct {
	mmdbdata.StrictFields

	Code string `maxminddb:"code"`
}

// Location describes the geographic coordinates and metadata associated
// with an IP address.
type Location struct {
	mmdbdata.StrictFields

	AccuracyRadius uint16  `maxminddb:"accuracy_radius"`
	Latitude       float64 `maxminddb:"latitude"`
	Longitude      float64 `maxminddb:"longitude"`
	MetroCode      uint16  `maxminddb:"metro_code"`
	TimeZone       string  `maxminddb:"time_zone"`
}

// Traits holds the anonymity and network-type flags shared by the Country
// and City records.
type Traits struct {
	mmdbdata.StrictFields

	IsAnonymousProxy    bool `maxminddb:"is_anonymous_proxy"`
	IsAnycast           bool `maxminddb:"is_anycast"`
	IsSatelliteProvider bool `maxminddb:"is_satellite_provider"`
}

// CountryRecord is the decoded record for a GeoIP2/GeoLite2 Country
// database lookup.
type CountryRecord struct {
	mmdbdata.StrictFields

	Continent          Continent          `maxminddb:"continent"`
	Country            Country            `maxminddb:"country"`
	RegisteredCountry  Country            `maxminddb:"registered_country"`
	RepresentedCountry RepresentedCountry `maxminddb:"represented_country"`
	Traits             Traits             `maxminddb:"traits"`
}

// CityRecord is the decoded record for a GeoIP2/GeoLite2 City database
// lookup.
type CityRecord struct {
	mmdbdata.StrictFields

	City               City               `maxminddb:"city"`
	Continent          Continent          `maxminddb:"continent"`
	Country            Country            `maxminddb:"country"`
	Location           Location           `maxminddb:"location"`
	Postal             Postal             `maxminddb:"postal"`
	RegisteredCountry  Country            `maxminddb:"registered_country"`
	RepresentedCountry RepresentedCountry `maxminddb:"represented_country"`
	Subdivisions       []Subdivision      `maxminddb:"subdivisions"`
	Traits             Traits             `maxminddb:"traits"`
}

// AnonymousIP is the decoded record for a GeoIP2 Anonymous IP database
// lookup.
type AnonymousIP struct {
	mmdbdata.StrictFields

	IsAnonymous        bool `maxminddb:"is_anonymous"`
	IsAnonymousVPN     bool `maxminddb:"is_anonymous_vpn"`
	IsHostingProvider  bool `maxminddb:"is_hosting_provider"`
	IsPublicProxy      bool `maxminddb:"is_public_proxy"`
	IsResidentialProxy bool `maxminddb:"is_residential_proxy"`
	IsTorExitNode      bool `maxminddb:"is_tor_exit_node"`
}

// ConnectionType is the decoded record for a GeoIP2 Connection-Type
// database lookup.
type ConnectionType struct {
	mmdbdata.StrictFields

	ConnectionType string `maxminddb:"connection_type"`
}

// Domain is the decoded record for a GeoIP2 Domain database lookup.
type Domain struct {
	mmdbdata.StrictFields

	Domain string `maxminddb:"domain"`
}

// ISP is the decoded record for a GeoIP2 ISP database lookup.
type ISP struct {
	mmdbdata.StrictFields

	AutonomousSystemNumber       uint   `maxminddb:"autonomous_system_number"`
	AutonomousSystemOrganization string `maxminddb:"autonomous_system_organization"`
	ISP                          string `maxminddb:"isp"`
	MobileCountryCode            string `maxminddb:"mobile_country_code"`
	MobileNetworkCode            string `maxminddb:"mobile_network_code"`
	Organization                 string `maxminddb:"organization"`
}

// ASN is the decoded record for a GeoLite2 ASN database lookup.
type ASN struct {
	mmdbdata.StrictFields

	AutonomousSystemNumber       uint   `maxminddb:"autonomous_system_number"`
	AutonomousSystemOrganization string `maxminddb:"autonomous_system_organization"`
}
