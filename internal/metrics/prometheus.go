// Package metrics defines the Prometheus instrumentation for the
// framing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the framing service
type Metrics struct {
	// Deframer metrics
	BitsProcessed   prometheus.Counter
	FramesExtracted prometheus.Counter
	SyncAcquired    prometheus.Counter
	SyncLost        prometheus.Counter

	// Channel metrics
	ActiveChannels  prometheus.Gauge
	ChannelsCreated prometheus.Counter
	ChannelsRemoved prometheus.Counter

	// Simulator metrics
	FramesGenerated   prometheus.Counter
	BitErrorsInjected prometheus.Counter
	PayloadMismatches prometheus.Counter
	SyncRunFrames     prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		BitsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_bits_processed_total",
			Help: "Total number of sliced bits pushed through deframers",
		}),
		FramesExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_frames_extracted_total",
			Help: "Total number of frames extracted across all channels",
		}),
		SyncAcquired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_sync_acquired_total",
			Help: "Total number of frame lock acquisitions",
		}),
		SyncLost: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_sync_lost_total",
			Help: "Total number of frame lock losses",
		}),

		ActiveChannels: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vhframe_active_channels",
			Help: "Current number of active receive channels",
		}),
		ChannelsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_channels_created_total",
			Help: "Total number of channel sessions created",
		}),
		ChannelsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_channels_removed_total",
			Help: "Total number of channel sessions removed",
		}),

		FramesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_sim_frames_generated_total",
			Help: "Total number of frames generated by the simulator",
		}),
		BitErrorsInjected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_sim_bit_errors_injected_total",
			Help: "Total number of bit errors injected by the simulator",
		}),
		PayloadMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vhframe_sim_payload_mismatches_total",
			Help: "Total number of extracted frames whose payload did not match the transmitted one",
		}),
		SyncRunFrames: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vhframe_sync_run_frames",
			Help:    "Number of consecutive frames delivered per lock acquisition",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}
