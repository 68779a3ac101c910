package server

import (
	"fmt"
	"net"
	"net/http"
)

func StartHTTPServer(host string, port int, handler http.Handler) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	return http.ListenAndServe(addr, handler)
}
