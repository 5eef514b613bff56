package connectivity

import "net"

// InterfaceLink treats the link as up when the named interface is up and has
// at least one address. An empty name accepts any non-loopback interface.
type InterfaceLink struct {
	Name string
}

// Up implements Link.
func (l InterfaceLink) Up() bool {
	if l.Name != "" {
		ifi, err := net.InterfaceByName(l.Name)
		if err != nil {
			return false
		}
		return usable(*ifi)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		if usable(ifi) {
			return true
		}
	}
	return false
}

func usable(ifi net.Interface) bool {
	if ifi.Flags&net.FlagUp == 0 {
		return false
	}
	addrs, err := ifi.Addrs()
	return err == nil && len(addrs) > 0
}
