package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// hostFromArg reduces a URL to its host and port, the way a browser reports
// location.host. Anything that is not a URL is used as given.
func hostFromArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if !strings.Contains(arg, "://") {
		return arg
	}
	u, err := url.Parse(arg)
	if err != nil || u.Host == "" {
		return arg
	}
	return u.Host
}

// resolveHost picks the text to speak: the argument if there is one, the
// machine's host name otherwise.
func resolveHost(args []string, hostname func() (string, error)) (string, error) {
	if len(args) > 0 {
		host := hostFromArg(args[0])
		if host == "" {
			return "", errors.New("host must not be empty")
		}
		return host, nil
	}

	host, err := hostname()
	if err != nil {
		return "", fmt.Errorf("unable to get host name: %w", err)
	}
	if host == "" {
		return "", errors.New("machine has no host name, pass one as an argument")
	}
	return host, nil
}
