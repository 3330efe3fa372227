package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relaywire/realmproxy/internal/logging"
)

// Prometheus series
var (
	RelaysAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relays_accepted_total",
		Help: "Total client connections accepted by the listener.",
	})
	RelaysActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relays_active",
		Help: "Current number of relays (client<->server pairs) in progress.",
	})
	RelaysFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relays_failed_total",
		Help: "Total relays that ended with an error.",
	})
	PolicyRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "policy_requests_total",
		Help: "Total connections that completed the cross-domain policy preamble.",
	})
	FramesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frames_decoded_total",
		Help: "Total frames decrypted off the wire, either direction.",
	})
	FramesEncoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frames_encoded_total",
		Help: "Total frames enciphered onto the wire, either direction.",
	})
	PacketsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packets_cancelled_total",
		Help: "Total packets cancelled by a plugin before reaching the peer.",
	})
	PacketsInjected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packets_injected_total",
		Help: "Total synthetic packets appended to an outbound batch by a plugin.",
	})
	InjectionEncodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injection_encode_errors_total",
		Help: "Total plugin-injected messages that failed to encode and were skipped.",
	})
	DecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decode_failures_total",
		Help: "Total sticky typed-decode failures (field codec or mapping), logged once each.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality).
const (
	ErrTransport  = "transport"
	ErrFraming    = "framing"
	ErrFieldCodec = "field_codec"
	ErrMapping    = "mapping"
	ErrHandshake  = "policy_preamble"
	ErrContext    = "context"
	ErrOther      = "other"
)

// StartHTTP serves Prometheus metrics at /metrics, plus a /ready probe.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters, read without touching the Prometheus registry.
var (
	localAccepted    uint64
	localActive      uint64
	localFailed      uint64
	localPolicy      uint64
	localFramesDec   uint64
	localFramesEnc   uint64
	localCancelled   uint64
	localInjected    uint64
	localInjectErr   uint64
	localDecodeFails uint64
	localErrors      uint64
)

// Snapshot is a cheap copy of local counters, for non-Prometheus consumers.
type Snapshot struct {
	RelaysAccepted   uint64
	RelaysActive     uint64
	RelaysFailed     uint64
	PolicyRequests   uint64
	FramesDecoded    uint64
	FramesEncoded    uint64
	PacketsCancelled uint64
	PacketsInjected  uint64
	InjectionErrors  uint64
	DecodeFailures   uint64
	Errors           uint64
}

func Snap() Snapshot {
	return Snapshot{
		RelaysAccepted:   atomic.LoadUint64(&localAccepted),
		RelaysActive:     atomic.LoadUint64(&localActive),
		RelaysFailed:     atomic.LoadUint64(&localFailed),
		PolicyRequests:   atomic.LoadUint64(&localPolicy),
		FramesDecoded:    atomic.LoadUint64(&localFramesDec),
		FramesEncoded:    atomic.LoadUint64(&localFramesEnc),
		PacketsCancelled: atomic.LoadUint64(&localCancelled),
		PacketsInjected:  atomic.LoadUint64(&localInjected),
		InjectionErrors:  atomic.LoadUint64(&localInjectErr),
		DecodeFailures:   atomic.LoadUint64(&localDecodeFails),
		Errors:           atomic.LoadUint64(&localErrors),
	}
}

func IncAccepted() {
	RelaysAccepted.Inc()
	atomic.AddUint64(&localAccepted, 1)
}

func SetActive(n int) {
	RelaysActive.Set(float64(n))
	atomic.StoreUint64(&localActive, uint64(n))
}

func IncFailed() {
	RelaysFailed.Inc()
	atomic.AddUint64(&localFailed, 1)
}

func IncPolicyRequest() {
	PolicyRequests.Inc()
	atomic.AddUint64(&localPolicy, 1)
}

func IncFramesDecoded() {
	FramesDecoded.Inc()
	atomic.AddUint64(&localFramesDec, 1)
}

func IncFramesEncoded() {
	FramesEncoded.Inc()
	atomic.AddUint64(&localFramesEnc, 1)
}

func IncCancelled() {
	PacketsCancelled.Inc()
	atomic.AddUint64(&localCancelled, 1)
}

func IncInjected() {
	PacketsInjected.Inc()
	atomic.AddUint64(&localInjected, 1)
}

func IncInjectionError() {
	InjectionEncodeErrors.Inc()
	atomic.AddUint64(&localInjectErr, 1)
}

func IncDecodeFailure() {
	DecodeFailures.Inc()
	atomic.AddUint64(&localDecodeFails, 1)
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

// InitBuildInfo sets the build info gauge and pre-registers error label series
// so the first real error of each kind doesn't pay registration latency.
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	for _, lbl := range []string{ErrTransport, ErrFraming, ErrFieldCodec, ErrMapping, ErrHandshake, ErrContext, ErrOther} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}

// Ready is a concise alias used at call sites.
func Ready() bool { return IsReady() }
