// Package ifaces inventories the local network interfaces.
package ifaces

import (
	"sort"
	"strings"

	gopsutilnet "github.com/shirou/gopsutil/v3/net"
)

// Interface describes a single local network interface.
type Interface struct {
	Name      string   `json:"name"`
	MAC       string   `json:"mac,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	Up        bool     `json:"up"`
	Loopback  bool     `json:"loopback"`
}

// List returns the local network interfaces sorted by name.
func List() ([]Interface, error) {
	stats, err := gopsutilnet.Interfaces()
	if err != nil {
		return nil, err
	}

	interfaces := fromStats(stats)
	sort.Slice(interfaces, func(i, j int) bool {
		return interfaces[i].Name < interfaces[j].Name
	})
	return interfaces, nil
}

func fromStats(stats []gopsutilnet.InterfaceStat) []Interface {
	var interfaces []Interface
	for _, stat := range stats {
		iface := Interface{
			Name: stat.Name,
			MAC:  strings.ToLower(stat.HardwareAddr),
		}
		for _, flag := range stat.Flags {
			switch flag {
			case "up":
				iface.Up = true
			case "loopback":
				iface.Loopback = true
			}
		}
		for _, addr := range stat.Addrs {
			iface.Addresses = append(iface.Addresses, addr.Addr)
		}
		interfaces = append(interfaces, iface)
	}
	return interfaces
}
