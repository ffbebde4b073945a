package net

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://192.168.1.20:8000",
		endpointURL(&mdns.ServiceEntry{AddrV4: net.ParseIP("192.168.1.20"), Port: 8000}))
	assert.Equal(t, "http://[fe80::1]:8000",
		endpointURL(&mdns.ServiceEntry{AddrV6: net.ParseIP("fe80::1"), Port: 8000}))

	assert.Empty(t, endpointURL(nil))
	assert.Empty(t, endpointURL(&mdns.ServiceEntry{AddrV4: net.ParseIP("10.0.0.1")}))
	assert.Empty(t, endpointURL(&mdns.ServiceEntry{Port: 8000}))
}

func TestGetOutgoingIP(t *testing.T) {
	ip := net.ParseIP(GetOutgoingIP())
	assert.NotNil(t, ip)
}
