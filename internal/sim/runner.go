package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/AlexandreRouma/vhf-framing/internal/channel"
	"github.com/AlexandreRouma/vhf-framing/internal/config"
	"github.com/AlexandreRouma/vhf-framing/internal/frame"
	"github.com/AlexandreRouma/vhf-framing/internal/metrics"
)

// Runner owns the simulated channels and paces frame generation.
type Runner struct {
	cfg     config.SimConfig
	logger  *slog.Logger
	mgr     *channel.Manager
	metrics *metrics.Metrics

	channels []string
	sources  map[string]*Source
}

// NewRunner creates one source and one channel session per configured
// channel and primes each deframer with lead-in noise. m may be nil.
func NewRunner(cfg config.SimConfig, logger *slog.Logger, mgr *channel.Manager, m *metrics.Metrics) (*Runner, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &Runner{
		cfg:     cfg,
		logger:  logger,
		mgr:     mgr,
		metrics: m,
		sources: make(map[string]*Source),
	}

	for i := 0; i < cfg.Channels; i++ {
		name := fmt.Sprintf("sim-%d", i)
		rng := rand.New(rand.NewSource(seed + int64(i)))

		src, err := NewSource(frame.TypeA, cfg.BitErrorRate, cfg.CorruptUWRun, cfg.CorruptUWEvery, rng)
		if err != nil {
			return nil, fmt.Errorf("sim: source for %s: %w", name, err)
		}
		if _, err := mgr.CreateSession(name, frame.TypeA); err != nil {
			return nil, fmt.Errorf("sim: session for %s: %w", name, err)
		}
		if cfg.LeadInBits > 0 {
			if _, _, err := mgr.Push(name, src.LeadIn(cfg.LeadInBits)); err != nil {
				return nil, fmt.Errorf("sim: lead-in for %s: %w", name, err)
			}
		}

		r.channels = append(r.channels, name)
		r.sources[name] = src
	}

	return r, nil
}

// Run paces every channel at the configured frame rate until ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.cfg.GetFrameInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("Simulator running",
		slog.Int("channels", len(r.channels)),
		slog.Duration("frame_interval", interval),
		slog.Float64("bit_error_rate", r.cfg.BitErrorRate),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, name := range r.channels {
				if err := r.Step(name); err != nil {
					return err
				}
			}
		}
	}
}

// Step transmits one frame on the named channel and checks the
// extraction result against the transmitted fields.
func (r *Runner) Step(name string) error {
	src, ok := r.sources[name]
	if !ok {
		return fmt.Errorf("sim: unknown channel %s", name)
	}

	tx, err := src.NextFrame()
	if err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.FramesGenerated.Inc()
		r.metrics.BitErrorsInjected.Add(float64(tx.FlippedBits))
	}

	fields, extracted, err := r.mgr.Push(name, tx.Bits)
	if err != nil {
		return err
	}
	if !extracted {
		r.logger.Debug("No extraction",
			slog.String("channel", name),
			slog.Int("flipped_bits", tx.FlippedBits),
			slog.Bool("corrupted_uw", tx.CorruptedUW),
		)
		return nil
	}

	if fields.Payload != tx.Sent.Payload {
		if r.metrics != nil {
			r.metrics.PayloadMismatches.Inc()
		}
		r.logger.Debug("Payload mismatch",
			slog.String("channel", name),
			slog.Int("flipped_bits", tx.FlippedBits),
			slog.Bool("corrupted_uw", tx.CorruptedUW),
		)
	}
	return nil
}
