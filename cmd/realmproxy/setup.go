package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/relaywire/realmproxy/internal/catalog"
	"github.com/relaywire/realmproxy/internal/directory"
	"github.com/relaywire/realmproxy/internal/mappings"
)

// buildMappings loads the shared cipher key and wire<->internal ID table.
func buildMappings(cfg *appConfig) (*mappings.Mappings, error) {
	table, err := loadIDsTable(cfg.idsFile)
	if err != nil {
		return nil, err
	}
	wireToInternal := make(map[uint8]catalog.InternalID, len(table))
	for wireStr, name := range table {
		wireN, err := strconv.Atoi(wireStr)
		if err != nil || wireN < 0 || wireN > 0xff {
			return nil, fmt.Errorf("ids-file: invalid wire id %q", wireStr)
		}
		id, ok := catalog.ByName(name)
		if !ok {
			return nil, fmt.Errorf("ids-file: unknown variant name %q", name)
		}
		wireToInternal[uint8(wireN)] = id
	}
	return mappings.New(cfg.cipherKeyHex, wireToInternal)
}

// buildDirectory loads the server-name -> address table, either from an XML
// document or from the --servers flag's literal pairs.
func buildDirectory(cfg *appConfig) (*directory.Directory, error) {
	if cfg.serversFile != "" {
		data, err := os.ReadFile(cfg.serversFile)
		if err != nil {
			return nil, fmt.Errorf("reading servers-file: %w", err)
		}
		servers, err := directory.ParseXML(data)
		if err != nil {
			return nil, err
		}
		return directory.New(servers), nil
	}
	pairs := parseServerList(cfg.servers)
	servers := make(map[string]net.IP, len(pairs))
	for name, ipStr := range pairs {
		ip := net.ParseIP(ipStr)
		if ip == nil {
			return nil, fmt.Errorf("--servers: invalid ip %q for %q", ipStr, name)
		}
		servers[name] = ip
	}
	return directory.New(servers), nil
}
