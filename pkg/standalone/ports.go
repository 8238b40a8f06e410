package standalone

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
)

// ErrPortInUse is returned by CheckPortAvailable.
var ErrPortInUse = errors.New("port already in use")

// CheckPortAvailable fails when host:port cannot be bound. The most common
// culprit is an Ollama service installed directly on the host, which also
// listens on 11434. Only an address conflict yields ErrPortInUse; other bind
// failures such as an unresolvable host are returned as they are.
func CheckPortAvailable(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%w: %s (stop the process listening there, e.g. `sudo systemctl stop ollama`, or choose another --port): %w",
				ErrPortInUse, addr, err)
		}
		return fmt.Errorf("cannot bind %s: %w", addr, err)
	}
	return ln.Close()
}
