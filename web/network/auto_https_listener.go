package network

import "net"

// AutoHttpsListener wraps a net.Listener so every accepted connection gets
// the HTTP-to-HTTPS redirect treatment of AutoHttpsConn.
type AutoHttpsListener struct {
	net.Listener
}

func NewAutoHttpsListener(listener net.Listener) net.Listener {
	return &AutoHttpsListener{
		Listener: listener,
	}
}

// Accept implements the net.Listener Accept method.
func (l *AutoHttpsListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return NewAutoHttpsConn(conn), nil
}
