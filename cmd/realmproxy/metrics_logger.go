package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/relaywire/realmproxy/internal/metrics"
)

func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				snap := metrics.Snap()
				l.Info("metrics_snapshot",
					"relays_accepted", snap.RelaysAccepted,
					"relays_active", snap.RelaysActive,
					"relays_failed", snap.RelaysFailed,
					"policy_requests", snap.PolicyRequests,
					"frames_decoded", snap.FramesDecoded,
					"frames_encoded", snap.FramesEncoded,
					"packets_cancelled", snap.PacketsCancelled,
					"packets_injected", snap.PacketsInjected,
					"injection_errors", snap.InjectionErrors,
					"decode_failures", snap.DecodeFailures,
					"errors", snap.Errors,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
