package maxminddb

import (
	"errors"
	"iter"
	"net/netip"

	"github.com/f1shl3gs/maxminddb/internal/mmdberrors"
)

// networksConfig holds the resolved settings for a Networks/NetworksWithin
// call after all NetworksOption values have been applied.
type networksConfig struct {
	includeAliasedNetworks bool
}

// NetworksOption configures the behavior of Reader.Networks and
// Reader.NetworksWithin.
type NetworksOption func(*networksConfig)

// IncludeAliasedNetworks configures Networks and NetworksWithin to include
// aliased network ranges, such as the ones reserved for IPv4-mapped IPv6
// addresses (::ffff:0:0/96) and 6to4 addresses (2002::/16). By default these
// ranges are skipped, as they duplicate data already reachable through its
// canonical IPv4 or native IPv6 representation.
func IncludeAliasedNetworks(c *networksConfig) {
	c.includeAliasedNetworks = true
}

var errEnumerateClosed = errors.New("cannot enumerate networks on a closed database")

// Networks returns an iterator over the networks recorded in the database.
//
// Each iteration yields a Result that can be decoded with Result.Decode and
// whose associated CIDR can be read with Result.Network. By default, aliased
// networks (see IncludeAliasedNetworks) are skipped.
func (r *Reader) Networks(options ...NetworksOption) iter.Seq[Result] {
	return r.NetworksWithin(netip.PrefixFrom(netip.IPv6Unspecified(), 0), options...)
}

// NetworksWithin returns an iterator over the networks recorded in the
// database that fall within prefix. If prefix is the zero value, the entire
// database is iterated, equivalent to Networks.
//
// Passing a prefix narrower than a record in the tree still yields that
// record with its own, wider, network - the returned network is always the
// one actually encoded in the search tree, which may be broader than the
// requested prefix.
func (r *Reader) NetworksWithin(prefix netip.Prefix, options ...NetworksOption) iter.Seq[Result] {
	cfg := networksConfig{}
	for _, option := range options {
		option(&cfg)
	}

	return func(yield func(Result) bool) {
		if r.buffer == nil {
			yield(Result{err: errEnumerateClosed})
			return
		}

		node, depth, ip, isV4, ok, err := r.descendTo(prefix)
		if err != nil {
			yield(Result{err: err})
			return
		}
		if !ok {
			return
		}

		r.walk(node, depth, ip, isV4, cfg, yield)
	}
}

// descendTo walks from the root of the search tree to the node corresponding
// to prefix, returning the node, its bit depth, the 16-byte address built so
// far, and whether the path lies within the IPv4 subtree. ok is false when
// prefix cannot correspond to any node: a native IPv6 prefix other than ::/0
// requested against an IPv4-only database.
func (r *Reader) descendTo(prefix netip.Prefix) (node uint, depth int, ip [16]byte, isV4 bool, ok bool, err error) {
	addr := prefix.Addr()
	bits := prefix.Bits()
	if bits < 0 {
		bits = 0
	}

	addr16 := addr.As16()
	copy(ip[:], addr16[:])

	if r.Metadata.IPVersion == 4 && !addr.Is4() && !addr.Is4In6() && bits > 0 {
		// A native IPv6 prefix has no node in an IPv4-only tree; ::/0 (and
		// the zero Prefix) still cover the whole tree.
		return 0, 0, ip, false, false, nil
	}

	if r.Metadata.IPVersion != 6 || addr.Is4() {
		// Either the whole database is IPv4-only, in which case its search
		// tree starts at the node reached by the virtual IPv4 prefix
		// regardless of the requested address family, or the caller asked
		// for an IPv4 prefix within a dual-stack database.
		node = r.ipv4Start
		depth = r.ipv4StartBitDepth
		isV4 = true
	} else {
		node = 0
		depth = 0
		isV4 = false
	}

	nodeCount := r.Metadata.NodeCount
	target := bits
	if isV4 && addr.Is4() {
		// prefix.Bits() counts from bit 0 of the 32-bit address.
		target += 96
	}
	if target > 128 {
		target = 128
	}

	for depth < target && node < nodeCount {
		bit := bitAt(ip, depth)
		node = r.readChild(node, bit)
		depth++
	}

	return node, depth, ip, isV4, true, nil
}

func bitAt(ip [16]byte, depth int) uint {
	byteIdx := depth >> 3
	bitPos := 7 - (depth & 7)
	return (uint(ip[byteIdx]) >> bitPos) & 1
}

func (r *Reader) readChild(node uint, bit uint) uint {
	return readNodeBySize(r.buffer, node*r.nodeOffsetMult, bit, r.Metadata.RecordSize)
}

// walk performs a depth-first traversal of the search tree starting at node,
// yielding a Result for every data record encountered. It returns false once
// the caller's yield function has asked it to stop.
func (r *Reader) walk(
	node uint,
	depth int,
	ip [16]byte,
	isV4 bool,
	cfg networksConfig,
	yield func(Result) bool,
) bool {
	nodeCount := r.Metadata.NodeCount

	if !isV4 && depth == r.ipv4StartBitDepth && node == r.ipv4Start && [12]byte(ip[:12]) == [12]byte{} {
		isV4 = true
	}

	if node == nodeCount {
		// Empty branch, nothing recorded here.
		return true
	}

	if node > nodeCount {
		if !isV4 && !cfg.includeAliasedNetworks && isAliasedRange(ip, depth) {
			return true
		}

		offset, err := r.resolveDataPointer(node)
		result := Result{
			decoder:   r.decoder,
			prefixLen: uint8(depth),
			err:       err,
		}
		if isV4 {
			result.ip = netip.AddrFrom4([4]byte{ip[12], ip[13], ip[14], ip[15]})
		} else {
			result.ip = netip.AddrFrom16(ip)
		}
		if err == nil {
			result.offset = uint(offset)
		}
		return yield(result)
	}

	if depth >= 128 {
		return yield(Result{err: mmdberrors.NewCorruptSearchTreeError(
			"invalid search tree at %s", netip.AddrFrom16(ip),
		)})
	}

	for _, bit := range [2]uint{0, 1} {
		child := r.readChild(node, bit)
		childIP := ip
		if bit == 1 {
			byteIdx := depth >> 3
			bitPos := 7 - (depth & 7)
			childIP[byteIdx] |= 1 << bitPos
		}

		if !r.walk(child, depth+1, childIP, isV4, cfg, yield) {
			return false
		}
	}

	return true
}

// isAliasedRange reports whether the path built so far is known to fall
// entirely within an IPv6 range that MaxMind DB files use to duplicate IPv4
// data for native IPv6 lookups, rather than the canonical IPv4 subtree
// reached by descending through the all-zero prefix.
func isAliasedRange(ip [16]byte, depth int) bool {
	if depth >= 96 &&
		ip[0] == 0 && ip[1] == 0 && ip[2] == 0 && ip[3] == 0 &&
		ip[4] == 0 && ip[5] == 0 && ip[6] == 0 && ip[7] == 0 &&
		ip[8] == 0 && ip[9] == 0 && ip[10] == 0xff && ip[11] == 0xff {
		// ::ffff:0:0/96, the IPv4-mapped IPv6 range.
		return true
	}
	if depth >= 16 && ip[0] == 0x20 && ip[1] == 0x02 {
		// 2002::/16, the 6to4 range.
		return true
	}
	return false
}
