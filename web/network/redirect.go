// Package network wraps the server listener so that plain HTTP requests
// arriving on a TLS port are answered with a redirect to https.
package network

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"sync"
)

// peekSize bounds how much of the first packet is inspected.
const peekSize = 4096

// redirectConn answers a connection whose first bytes parse as an HTTP
// request with a 307 to the same URL over https. Anything else, such as a
// TLS ClientHello, is replayed to the reader untouched.
type redirectConn struct {
	net.Conn

	once    sync.Once
	pending []byte
}

func (c *redirectConn) sniff() {
	buf := make([]byte, peekSize)
	n, err := c.Conn.Read(buf)
	c.pending = buf[:n]
	if err != nil || n == 0 {
		return
	}

	req, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(c.pending)))
	if err != nil {
		return
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", "https://"+req.Host+req.RequestURI)
	resp.Header.Set("Connection", "close")
	_ = resp.Write(c.Conn)
	_ = c.Conn.Close()
	c.pending = nil
}

func (c *redirectConn) Read(b []byte) (int, error) {
	c.once.Do(c.sniff)
	if len(c.pending) > 0 {
		n := copy(b, c.pending)
		c.pending = c.pending[n:]
		return n, nil
	}
	return c.Conn.Read(b)
}

type redirectListener struct {
	net.Listener
}

// NewRedirectListener wraps l so every accepted connection redirects plain
// HTTP to https. Wrap the result with tls.NewListener.
func NewRedirectListener(l net.Listener) net.Listener {
	return &redirectListener{Listener: l}
}

func (l *redirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &redirectConn{Conn: conn}, nil
}
