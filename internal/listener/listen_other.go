//go:build !linux

package listener

import (
	"fmt"
	"net"
	"strconv"
)

// listen 在非Linux系统上的实现：backlog 由操作系统决定。
func listen(bindAddress string, port, _ int) (net.Listener, error) {
	if ip := net.ParseIP(bindAddress); ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("bind address %q is not an IPv4 address", bindAddress)
	}
	return net.Listen("tcp4", net.JoinHostPort(bindAddress, strconv.Itoa(port)))
}
