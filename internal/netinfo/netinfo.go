// Package netinfo discovers the address other devices on the LAN should use
// to reach this host.
package netinfo

import (
	"fmt"
	"net"

	"github.com/jackpal/gateway"
)

// LocalIP returns the IPv4 address of the interface facing the default
// gateway, which is the address phones on the same network can reach. When
// gateway discovery fails (VPNs, odd routing tables) it falls back to the
// address a UDP socket to a public resolver would bind, and finally to
// 127.0.0.1.
func LocalIP() string {
	if gwIP, err := gateway.DiscoverGateway(); err == nil {
		if ip, err := localIPForGateway(gwIP); err == nil {
			return ip.String()
		}
	}
	return dialedLocalIP()
}

func localIPForGateway(gwIP net.IP) (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ipv4 := ipnet.IP.To4()
			if ipv4 == nil || ipv4.IsLoopback() || !ipv4.IsGlobalUnicast() {
				continue
			}
			if ipnet.Contains(gwIP) {
				return ipv4, nil
			}
		}
	}
	return nil, fmt.Errorf("no IPv4 address in the gateway subnet %s", gwIP)
}

// dialedLocalIP learns the outbound address without sending anything: UDP
// "connect" only selects a route.
func dialedLocalIP() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
