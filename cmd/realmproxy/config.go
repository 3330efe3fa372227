package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

type appConfig struct {
	listenAddr      string
	defaultServer   string
	cipherKeyHex    string
	idsFile         string
	serversFile     string
	servers         string
	logFormat       string
	logLevel        string
	metricsAddr     string
	logMetricsEvery time.Duration
	mdnsEnable      bool
	mdnsName        string
}

func parseFlags() (*appConfig, bool) {
	cfg := &appConfig{}
	listen := flag.String("listen", ":2050", "Client-facing TCP listen address")
	defaultServer := flag.String("default-server", "", "Directory name of the backend server new relays dial")
	cipherKeyHex := flag.String("cipher-key", "", "26-byte RC4 combined key, hex-encoded")
	idsFile := flag.String("ids-file", "", "Path to a JSON object mapping wire ID (decimal string) to variant name")
	serversFile := flag.String("servers-file", "", "Path to a server-list XML document (Servers/Server/{Name,DNS})")
	servers := flag.String("servers", "", "Comma-separated name=ip pairs, used if --servers-file is empty")
	logFormat := flag.String("log-format", "text", "Log format: text|json")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	metricsAddr := flag.String("metrics-addr", "", "Metrics HTTP listen address (e.g., :9100); empty disables")
	logMetricsEvery := flag.Duration("log-metrics-interval", 0, "If >0, periodically log metrics counters (for non-Prometheus setups)")
	mdnsEnable := flag.Bool("mdns-enable", false, "Enable mDNS/Avahi advertisement of the proxy listener")
	mdnsName := flag.String("mdns-name", "", "mDNS instance name (default realmproxy-<hostname>)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	setFlags := map[string]struct{}{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })

	cfg.listenAddr = *listen
	cfg.defaultServer = *defaultServer
	cfg.cipherKeyHex = *cipherKeyHex
	cfg.idsFile = *idsFile
	cfg.serversFile = *serversFile
	cfg.servers = *servers
	cfg.logFormat = *logFormat
	cfg.logLevel = *logLevel
	cfg.metricsAddr = *metricsAddr
	cfg.logMetricsEvery = *logMetricsEvery
	cfg.mdnsEnable = *mdnsEnable
	cfg.mdnsName = *mdnsName

	if err := applyEnvOverrides(cfg, setFlags); err != nil {
		fmt.Printf("environment override error: %v\n", err)
		return nil, *showVersion
	}
	if *showVersion {
		return cfg, true
	}
	if err := cfg.validate(); err != nil {
		fmt.Printf("configuration error: %v\n", err)
		return nil, *showVersion
	}
	return cfg, false
}

// validate performs basic semantic validation of the parsed configuration.
// It does not open the cipher key, ids file, or server list — only checks
// that enough information was given to attempt it.
func (c *appConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch c.logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.logFormat)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.logLevel)
	}
	if c.cipherKeyHex == "" {
		return errors.New("cipher-key is required")
	}
	if c.idsFile == "" {
		return errors.New("ids-file is required")
	}
	if c.defaultServer == "" {
		return errors.New("default-server is required")
	}
	if c.serversFile == "" && c.servers == "" {
		return errors.New("one of servers-file or servers is required")
	}
	return nil
}

// loadIDsTable loads the wire-ID -> variant-name table from path.
func loadIDsTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ids-file: %w", err)
	}
	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing ids-file: %w", err)
	}
	return table, nil
}

// parseServerList parses the --servers flag's comma-separated name=ip pairs.
func parseServerList(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, ip, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(ip)
	}
	return out
}

// applyEnvOverrides maps REALMPROXY_* environment variables onto config
// fields unless a corresponding flag was explicitly set.
func applyEnvOverrides(c *appConfig, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }

	if _, ok := set["listen"]; !ok {
		if v, ok := get("REALMPROXY_LISTEN"); ok && v != "" {
			c.listenAddr = v
		}
	}
	if _, ok := set["default-server"]; !ok {
		if v, ok := get("REALMPROXY_DEFAULT_SERVER"); ok && v != "" {
			c.defaultServer = v
		}
	}
	if _, ok := set["cipher-key"]; !ok {
		if v, ok := get("REALMPROXY_CIPHER_KEY"); ok && v != "" {
			c.cipherKeyHex = v
		}
	}
	if _, ok := set["ids-file"]; !ok {
		if v, ok := get("REALMPROXY_IDS_FILE"); ok && v != "" {
			c.idsFile = v
		}
	}
	if _, ok := set["servers-file"]; !ok {
		if v, ok := get("REALMPROXY_SERVERS_FILE"); ok && v != "" {
			c.serversFile = v
		}
	}
	if _, ok := set["servers"]; !ok {
		if v, ok := get("REALMPROXY_SERVERS"); ok && v != "" {
			c.servers = v
		}
	}
	if _, ok := set["log-format"]; !ok {
		if v, ok := get("REALMPROXY_LOG_FORMAT"); ok && v != "" {
			c.logFormat = v
		}
	}
	if _, ok := set["log-level"]; !ok {
		if v, ok := get("REALMPROXY_LOG_LEVEL"); ok && v != "" {
			c.logLevel = v
		}
	}
	if _, ok := set["metrics-addr"]; !ok {
		if v, ok := get("REALMPROXY_METRICS"); ok {
			c.metricsAddr = v
		}
	}
	if _, ok := set["log-metrics-interval"]; !ok {
		if v, ok := get("REALMPROXY_LOG_METRICS_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d >= 0 {
				c.logMetricsEvery = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid REALMPROXY_LOG_METRICS_INTERVAL: %w", err)
			}
		}
	}
	if _, ok := set["mdns-enable"]; !ok {
		if v, ok := get("REALMPROXY_MDNS_ENABLE"); ok && v != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "on":
				c.mdnsEnable = true
			case "0", "false", "no", "off":
				c.mdnsEnable = false
			}
		}
	}
	if _, ok := set["mdns-name"]; !ok {
		if v, ok := get("REALMPROXY_MDNS_NAME"); ok && v != "" {
			c.mdnsName = v
		}
	}
	return firstErr
}
