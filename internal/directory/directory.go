// Package directory resolves a server's display name to a dialable address,
// building short aliases the same way the game's own server browser does.
package directory

import (
	"encoding/xml"
	"fmt"
	"net"
	"strings"
)

// GamePort is the fixed port every backend server listens on.
const GamePort = 2050

// aliasSubs is the ordered list of substring substitutions applied to a
// lowercased server name to derive its short alias. Order matters: later
// substitutions operate on the output of earlier ones.
var aliasSubs = []struct{ from, to string }{
	{"east", "e"},
	{"west", "w"},
	{"south", "s"},
	{"north", "n"},
	{"asia", "as"},
	{"mid", "m"},
	{"australia", "aus"},
}

// abbreviate derives a server's short alias from its lowercased name.
func abbreviate(lower string) string {
	s := lower
	for _, sub := range aliasSubs {
		s = strings.ReplaceAll(s, sub.from, sub.to)
	}
	return s
}

// Directory maps server names and their derived aliases to an address.
// Immutable after construction and safe for concurrent reads.
type Directory struct {
	entries map[string]net.IP
}

// New builds a Directory from a name -> IP table, lowercasing every name and
// adding its alias. An alias is never allowed to overwrite an existing
// entry, full name or alias: whichever of two colliding names is processed
// first keeps the alias.
func New(servers map[string]net.IP) *Directory {
	d := &Directory{entries: make(map[string]net.IP, len(servers)*2)}
	for name, ip := range servers {
		lower := strings.ToLower(name)
		d.entries[lower] = ip
		alias := abbreviate(lower)
		if _, exists := d.entries[alias]; !exists {
			d.entries[alias] = ip
		}
	}
	return d
}

// IP resolves name (full or alias, case-insensitive) to an address.
func (d *Directory) IP(name string) (net.IP, bool) {
	ip, ok := d.entries[strings.ToLower(name)]
	return ip, ok
}

// Socket resolves name to a dialable TCP address on the fixed game port.
func (d *Directory) Socket(name string) (*net.TCPAddr, bool) {
	ip, ok := d.IP(name)
	if !ok {
		return nil, false
	}
	return &net.TCPAddr{IP: ip, Port: GamePort}, true
}

type serverListDoc struct {
	XMLName xml.Name `xml:"Servers"`
	Servers []struct {
		Name string `xml:"Name"`
		DNS  string `xml:"DNS"`
	} `xml:"Server"`
}

// ParseXML parses a server-list document (the `Servers/Server*/{Name,DNS}`
// shape) into a name -> IP table suitable for New. Fetching the document
// itself is the caller's responsibility. A DNS field that is not already a
// literal IP is resolved via net.LookupIP; entries that fail to resolve are
// skipped rather than failing the whole parse.
func ParseXML(doc []byte) (map[string]net.IP, error) {
	var parsed serverListDoc
	if err := xml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("directory: parse server list: %w", err)
	}
	out := make(map[string]net.IP, len(parsed.Servers))
	for _, s := range parsed.Servers {
		ip := net.ParseIP(s.DNS)
		if ip == nil {
			resolved, err := net.LookupIP(s.DNS)
			if err != nil || len(resolved) == 0 {
				continue
			}
			ip = resolved[0]
		}
		out[s.Name] = ip
	}
	return out, nil
}
