package config

import (
	"fmt"
	"net/netip"
)

// CIDRSubnet returns subnet netnum of prefix extended by newbits, like
// Terraform's cidrsubnet. Only IPv4 is supported.
func CIDRSubnet(prefix string, newbits, netnum int) (string, error) {
	network, err := netip.ParsePrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if !network.Addr().Is4() {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}
	network = network.Masked()

	newBitsTotal := network.Bits() + newbits
	if newbits < 0 || newBitsTotal > 32 {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}
	if netnum < 0 || netnum >= 1<<newbits {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, 1<<newbits)
	}

	base := network.Addr().As4()
	ip := uint32(base[0])<<24 | uint32(base[1])<<16 | uint32(base[2])<<8 | uint32(base[3])
	// #nosec G115
	ip += uint32(netnum) << (32 - newBitsTotal)

	addr := netip.AddrFrom4([4]byte{byte(ip >> 24), byte(ip >> 16), byte(ip >> 8), byte(ip)})
	return netip.PrefixFrom(addr, newBitsTotal).String(), nil
}
