package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPAddr(t *testing.T) {
	out := `1: lo    inet 127.0.0.1/8 scope host lo\       valid_lft forever preferred_lft forever
2: eth0    inet 192.168.1.10/24 brd 192.168.1.255 scope global eth0\       valid_lft forever
2: eth0    inet6 fe80::1234/64 scope link\       valid_lft forever`

	interfaces := parseIPAddr(out)

	require.Len(t, interfaces, 2)
	assert.Equal(t, "lo", interfaces[0].Name)
	assert.Equal(t, []string{"127.0.0.1"}, interfaces[0].IPv4)
	assert.Equal(t, "eth0", interfaces[1].Name)
	assert.Equal(t, []string{"192.168.1.10"}, interfaces[1].IPv4)
	assert.Equal(t, []string{"fe80::1234"}, interfaces[1].IPv6)
}

func TestParseIfconfig(t *testing.T) {
	out := `lo0: flags=8049<UP,LOOPBACK,RUNNING,MULTICAST> mtu 16384
	inet 127.0.0.1 netmask 0xff000000
en0: flags=8863<UP,BROADCAST,SMART,RUNNING,SIMPLEX,MULTICAST> mtu 1500
	inet6 fe80::abcd%en0 prefixlen 64 secured scopeid 0xe
	inet 192.168.4.26 netmask 0xffffff00 broadcast 192.168.4.255
en5: flags=8863<UP,BROADCAST,SMART,RUNNING,SIMPLEX,MULTICAST> mtu 1500`

	interfaces := parseIfconfig(out)

	// en5 has no addresses and is dropped.
	require.Len(t, interfaces, 2)
	assert.Equal(t, "lo0", interfaces[0].Name)
	assert.Equal(t, "en0", interfaces[1].Name)
	assert.Equal(t, []string{"192.168.4.26"}, interfaces[1].IPv4)
	assert.Equal(t, []string{"fe80::abcd"}, interfaces[1].IPv6)
}

func TestParseIpconfig(t *testing.T) {
	out := `Windows IP Configuration

Ethernet adapter Ethernet:

   Link-local IPv6 Address . . . . . : fe80::1%5
   IPv4 Address. . . . . . . . . . . : 192.168.1.20
   Subnet Mask . . . . . . . . . . . : 255.255.255.0

Wireless LAN adapter Wi-Fi:

   Media State . . . . . . . . . . . : Media disconnected`

	interfaces := parseIpconfig(out)

	// The disconnected adapter has no IPv4 and is dropped.
	require.Len(t, interfaces, 1)
	assert.Equal(t, "Ethernet adapter Ethernet", interfaces[0].Name)
	assert.Equal(t, []string{"192.168.1.20"}, interfaces[0].IPv4)
}
