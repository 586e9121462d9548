//go:build linux

package listener

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listen 手动完成 socket/bind/listen，以便使用确切的 backlog。
// net.Listen 总是使用 somaxconn。
func listen(bindAddress string, port, backlog int) (net.Listener, error) {
	ip := net.ParseIP(bindAddress).To4()
	if ip == nil {
		return nil, fmt.Errorf("bind address %q is not an IPv4 address", bindAddress)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	if err := bindAndListen(fd, ip, port, backlog); err != nil {
		unix.Close(fd)
		return nil, err
	}

	// FileListener dups the descriptor, so the file is always closed here.
	f := os.NewFile(uintptr(fd), fmt.Sprintf("tcp:%s:%d", bindAddress, port))
	defer f.Close()
	ln, err := net.FileListener(f)
	if err != nil {
		return nil, fmt.Errorf("file listener: %w", err)
	}
	return ln, nil
}

func bindAndListen(fd int, ip net.IP, port, backlog int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("failed to set SO_REUSEADDR: %w", err)
	}

	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip)
	if err := unix.Bind(fd, sa); err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
