package transport

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseAddress splits an endpoint address into a network and an address
// for net.Dial. Explicit "unix:" and "tcp:" prefixes win; otherwise a
// host:port with a numeric port is TCP and anything else is a unix socket
// path.
func ParseAddress(address string) (network, addr string, err error) {
	switch {
	case address == "":
		return "", "", errors.New("empty endpoint address")
	case strings.HasPrefix(address, "unix:"):
		addr = strings.TrimPrefix(address, "unix:")
		network = "unix"
	case strings.HasPrefix(address, "tcp:"):
		addr = strings.TrimPrefix(address, "tcp:")
		network = "tcp"
	case isHostPort(address):
		return "tcp", address, nil
	default:
		return "unix", address, nil
	}
	if addr == "" {
		return "", "", errors.Errorf("endpoint address %q has no target", address)
	}
	return network, addr, nil
}

func isHostPort(address string) bool {
	if strings.ContainsRune(address, '/') {
		return false
	}
	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}
