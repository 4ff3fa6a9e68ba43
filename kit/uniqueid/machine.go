package uniqueid

import (
	"net"

	"github.com/pkg/errors"
)

// PrivateIPv4MachineID returns the lower 16 bits of the first private IPv4
// address bound to this host.
func PrivateIPv4MachineID() (int64, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return 0, errors.Wrap(err, "get interface addresses failed")
	}
	ip, err := firstPrivateIPv4(addrs)
	if err != nil {
		return 0, err
	}
	return int64(ip[2])<<8 | int64(ip[3]), nil
}

func firstPrivateIPv4(addrs []net.Addr) (net.IP, error) {
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		ip := ipNet.IP.To4()
		if ip != nil && ip.IsPrivate() {
			return ip, nil
		}
	}
	return nil, errors.WithStack(ErrNoPrivateAddress)
}
