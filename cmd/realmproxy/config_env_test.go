package main

import (
	"os"
	"testing"
	"time"
)

func TestApplyEnvOverridesBasic(t *testing.T) {
	base := &appConfig{
		listenAddr:    ":2050",
		defaultServer: "",
		cipherKeyHex:  "",
		logFormat:     "text",
		logLevel:      "info",
	}

	os.Setenv("REALMPROXY_DEFAULT_SERVER", "realm1")
	os.Setenv("REALMPROXY_CIPHER_KEY", "ab")
	os.Setenv("REALMPROXY_MDNS_ENABLE", "true")
	os.Setenv("REALMPROXY_LOG_METRICS_INTERVAL", "5s")
	t.Cleanup(func() {
		os.Unsetenv("REALMPROXY_DEFAULT_SERVER")
		os.Unsetenv("REALMPROXY_CIPHER_KEY")
		os.Unsetenv("REALMPROXY_MDNS_ENABLE")
		os.Unsetenv("REALMPROXY_LOG_METRICS_INTERVAL")
	})

	if err := applyEnvOverrides(base, map[string]struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.defaultServer != "realm1" {
		t.Fatalf("expected defaultServer override, got %q", base.defaultServer)
	}
	if base.cipherKeyHex != "ab" {
		t.Fatalf("expected cipherKeyHex override, got %q", base.cipherKeyHex)
	}
	if !base.mdnsEnable {
		t.Fatal("expected mdnsEnable true")
	}
	if base.logMetricsEvery != 5*time.Second {
		t.Fatalf("expected logMetricsEvery 5s, got %v", base.logMetricsEvery)
	}
}

func TestApplyEnvOverridesFlagPrecedence(t *testing.T) {
	base := &appConfig{defaultServer: "explicit"}
	os.Setenv("REALMPROXY_DEFAULT_SERVER", "fromenv")
	t.Cleanup(func() { os.Unsetenv("REALMPROXY_DEFAULT_SERVER") })

	if err := applyEnvOverrides(base, map[string]struct{}{"default-server": {}}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if base.defaultServer != "explicit" {
		t.Fatalf("expected defaultServer unchanged, got %q", base.defaultServer)
	}
}

func TestApplyEnvOverridesBadDuration(t *testing.T) {
	base := &appConfig{}
	os.Setenv("REALMPROXY_LOG_METRICS_INTERVAL", "notaduration")
	t.Cleanup(func() { os.Unsetenv("REALMPROXY_LOG_METRICS_INTERVAL") })

	if err := applyEnvOverrides(base, map[string]struct{}{}); err == nil {
		t.Fatal("expected error for bad duration")
	}
}
