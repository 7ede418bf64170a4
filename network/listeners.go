package network

import "net"

// CreateAddresses returns n localhost addresses nobody is listening on.
// Connecting to any of them is refused.
func CreateAddresses(n int) []string {
	addresses := make([]string, n)
	for i := range n {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			panic(err)
		}
		addresses[i] = l.Addr().String()
		if err := l.Close(); err != nil {
			panic(err)
		}
	}
	return addresses
}

// CreateListeners opens n listeners on localhost and returns them together
// with their addresses.
func CreateListeners(n int) ([]net.Listener, []string) {
	listeners := make([]net.Listener, n)
	addresses := make([]string, n)
	for i := range n {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			panic(err)
		}
		listeners[i] = l
		addresses[i] = l.Addr().String()
	}
	return listeners, addresses
}
