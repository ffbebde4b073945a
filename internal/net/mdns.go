package net

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ServiceType is what prediction backends advertise themselves as.
const ServiceType = "_digitpredict._tcp"

// Advertise announces a prediction backend listening on port.
func Advertise(port int, info []string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, errors.Wrap(err, "could not get hostname")
	}

	service, err := mdns.NewMDNSService(
		host,        // instance name
		ServiceType, // service
		"",          // domain, defaults to .local
		"",          // host name, defaults to the OS hostname
		port,
		nil, // IPs, auto-detected
		info,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mDNS service")
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start mDNS server")
	}
	return server, nil
}

// Browse looks for prediction backends on the local network and returns
// their base URLs in the order they answered.
func Browse(ctx context.Context, timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() {
		errc <- mdns.Query(params)
		close(entries)
	}()

	var found []string
	seen := map[string]bool{}
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				if err := <-errc; err != nil {
					return found, errors.Wrap(err, "mdns query")
				}
				return found, nil
			}
			u := endpointURL(e)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			log.Debug().Str("name", e.Name).Str("endpoint", u).Msg("found prediction service")
			found = append(found, u)
		case <-ctx.Done():
			go func() {
				for range entries {
				}
			}()
			return found, ctx.Err()
		}
	}
}

// Discover returns the first prediction backend that answers.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	found, err := Browse(ctx, timeout)
	if len(found) > 0 {
		return found[0], nil
	}
	if err != nil {
		return "", err
	}
	return "", errors.Errorf("no %s service found within %s", ServiceType, timeout)
}

func endpointURL(e *mdns.ServiceEntry) string {
	if e == nil || e.Port == 0 {
		return ""
	}
	var ip net.IP
	switch {
	case e.AddrV4 != nil:
		ip = e.AddrV4
	case e.AddrV6 != nil:
		ip = e.AddrV6
	default:
		return ""
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(ip.String(), fmt.Sprint(e.Port)))
}
