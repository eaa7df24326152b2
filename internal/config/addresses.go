package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// checkAddress accepts host:port bind addresses, the host may be empty.
func checkAddress(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

// DialAddress turns a bind address into one a client can connect to.
// For example: :50051 -> 127.0.0.1:50051, 0.0.0.0:80 -> 127.0.0.1:80
func DialAddress(bind string) (string, error) {
	host, port, err := net.SplitHostPort(bind)
	if err != nil {
		return "", err
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port), nil
}

// PageURL is the viewer page of a server bound to bind, opened on seed.
// For example: (:8080, golang) -> http://127.0.0.1:8080/?seed=golang
func PageURL(bind, seed string) (string, error) {
	addr, err := DialAddress(bind)
	if err != nil {
		return "", err
	}
	u := &url.URL{Scheme: "http", Host: addr, Path: "/"}
	if seed != "" {
		u.RawQuery = url.Values{"seed": {seed}}.Encode()
	}
	return u.String(), nil
}
