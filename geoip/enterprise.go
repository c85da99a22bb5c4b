package geoip

import "github.com/f1shl3gs/maxminddb/mmdbdata"

// EnterpriseCountry is the Country sub-record used by EnterpriseRecord. It
// adds Confidence, a score from 0-100 indicating how confident MaxMind is of
// this location.
type EnterpriseCountry struct {
	mmdbdata.StrictFields

	Confidence        uint16            `maxminddb:"confidence"`
	GeonameID         uint              `maxminddb:"geoname_id"`
	IsInEuropeanUnion bool              `maxminddb:"is_in_european_union"`
	ISOCode           string            `maxminddb:"iso_code"`
	Names             map[string]string `maxminddb:"names"`
}

// EnterpriseRepresentedCountry is the RepresentedCountry sub-record used by
// EnterpriseRecord.
type EnterpriseRepresentedCountry struct {
	mmdbdata.StrictFields

	Confidence         uint16            `maxminddb:"confidence"`
	GeonameID          uint              `maxminddb:"geoname_id"`
	IsInEuropeanUnion  bool              `maxminddb:"is_in_european_union"`
	ISOCode            string            `maxminddb:"iso_code"`
	Names              map[string]string `maxminddb:"names"`
	RepresentationType string            `maxminddb:"type"`
}

// EnterpriseCity is the City sub-record used by EnterpriseRecord.
type EnterpriseCity struct {
	mmdbdata.StrictFields

	Confidence uint16            `maxminddb:"confidence"`
	GeonameID  uint              `maxminddb:"geoname_id"`
	Names      map[string]string `maxminddb:"names"`
}

// EnterprisePostal is the Postal sub-record used by EnterpriseRecord.
type EnterprisePostal struct {
	mmdbdata.StrictFields

	Confidence uint16 `maxminddb:"confidence"`
	Code       string `maxminddb:"code"`
}

// EnterpriseSubdivision is the Subdivision sub-record used by
// EnterpriseRecord.
type EnterpriseSubdivision struct {
	mmdbdata.StrictFields

	Confidence uint16            `maxminddb:"confidence"`
	GeonameID  uint              `maxminddb:"geoname_id"`
	ISOCode    string            `maxminddb:"iso_code"`
	Names      map[string]string `maxminddb:"names"`
}

// EnterpriseTraits holds the ASN/ISP identity fields and the proxy/risk
// flags carried by an EnterpriseRecord.
type EnterpriseTraits struct {
	mmdbdata.StrictFields

	AutonomousSystemNumber       uint    `maxminddb:"autonomous_system_number"`
	AutonomousSystemOrganization string  `maxminddb:"autonomous_system_organization"`
	ConnectionType               string  `maxminddb:"connection_type"`
	Domain                       string  `maxminddb:"domain"`
	ISP                          string  `maxminddb:"isp"`
	MobileCountryCode            string  `maxminddb:"mobile_country_code"`
	MobileNetworkCode            string  `maxminddb:"mobile_network_code"`
	Organization                 string  `maxminddb:"organization"`
	UserType                     string  `maxminddb:"user_type"`
	StaticIPScore                float64 `maxminddb:"static_ip_score"`
	IsAnonymous                  bool    `maxminddb:"is_anonymous"`
	IsAnonymousProxy             bool    `maxminddb:"is_anonymous_proxy"`
	IsAnonymousVPN               bool    `maxminddb:"is_anonymous_vpn"`
	IsAnycast                    bool    `maxminddb:"is_anycast"`
	IsHostingProvider            bool    `maxminddb:"is_hosting_provider"`
	IsLegitimateProxy            bool    `maxminddb:"is_legitimate_proxy"`
	IsPublicProxy                bool    `maxminddb:"is_public_proxy"`
	IsResidentialProxy           bool    `maxminddb:"is_residential_proxy"`
	IsSatelliteProvider          bool    `maxminddb:"is_satellite_provider"`
	IsTorExitNode                bool    `maxminddb:"is_tor_exit_node"`
}

// EnterpriseRecord is the decoded record for a GeoIP2 Enterprise database
// lookup. It mirrors CityRecord but every sub-record carries a Confidence
// score, and Traits additionally exposes ASN/ISP identity fields.
type EnterpriseRecord struct {
	mmdbdata.StrictFields

	City               EnterpriseCity               `maxminddb:"city"`
	Continent          Continent                    `maxminddb:"continent"`
	Country            EnterpriseCountry            `maxminddb:"country"`
	Location           Location                     `maxminddb:"location"`
	Postal             EnterprisePostal             `maxminddb:"postal"`
	RegisteredCountry  EnterpriseCountry            `maxminddb:"registered_country"`
	RepresentedCountry EnterpriseRepresentedCountry `maxminddb:"represented_country"`
	Subdivisions       []EnterpriseSubdivision      `maxminddb:"subdivisions"`
	Traits             EnterpriseTraits             `maxminddb:"traits"`
}
