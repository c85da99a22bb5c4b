package maxminddb

import (
	internaldecoder "github.com/f1shl3gs/maxminddb/internal/decoder"
	"github.com/f1shl3gs/maxminddb/mmdbdata"
)

// Decoder provides methods for decoding MaxMind DB data values without
// reflection. It is handed to UnmarshalMaxMindDB methods so types can
// implement their own decoding logic; see the mmdbdata package for the
// full method set.
//
// Example:
//
//	type City struct {
//		Names     map[string]string
//		GeoNameID uint
//	}
//
//	func (c *City) UnmarshalMaxMindDB(d *maxminddb.Decoder) error {
//		mapIter, _, err := d.ReadMap()
//		if err != nil {
//			return err
//		}
//		for key, err := range mapIter {
//			if err != nil {
//				return err
//			}
//			switch string(key) {
//			case "names":
//				nameIter, size, err := d.ReadMap()
//				if err != nil {
//					return err
//				}
//				names := make(map[string]string, size)
//				for nameKey, nameErr := range nameIter {
//					if nameErr != nil {
//						return nameErr
//					}
//					value, valueErr := d.ReadString()
//					if valueErr != nil {
//						return valueErr
//					}
//					names[string(nameKey)] = value
//				}
//				c.Names = names
//			case "geoname_id":
//				geoID, err := d.ReadUint32()
//				if err != nil {
//					return err
//				}
//				c.GeoNameID = uint(geoID)
//			default:
//				if err := d.SkipValue(); err != nil {
//					return err
//				}
//			}
//		}
//		return nil
//	}
type Decoder = mmdbdata.Decoder

// Unmarshaler is implemented by types that can unmarshal MaxMind DB data.
// This follows the same pattern as json.Unmarshaler and other Go standard
// library interfaces.
type Unmarshaler = mmdbdata.Unmarshaler

// deserializer is implemented by callers that want to walk decoded values
// without reflecting into a concrete Go type.
type deserializer = internaldecoder.Deserializer
