package net

import (
	"net"

	"github.com/rs/zerolog/log"
)

// GetOutgoingIP finds the preferred local IP address, used to tell users
// where a locally started backend can be reached.
func GetOutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// no route to the internet; fall back to local interfaces
		return firstIPv4()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}

func firstIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn().Err(err).Msg("list interfaces")
		return "127.0.0.1"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4().String()
			}
		}
	}
	log.Warn().Msg("no suitable local IP found, using loopback")
	return "127.0.0.1"
}
