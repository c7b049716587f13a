package generator

import (
	"context"
	"fmt"
	"strings"

	"notecards/internal/logger"
)

// Strategy produces cards from notes. Implementations report failure through
// the returned Outcome rather than by panicking.
type Strategy interface {
	Name() Name
	Generate(ctx context.Context, notes string) Outcome
}

// Capabilities is the immutable result of the startup probe of optional
// model backends.
type Capabilities struct {
	LocalAvailable   bool   `json:"local_available"`
	LocalDetail      string `json:"local_detail,omitempty"`
	RemoteConfigured bool   `json:"remote_configured"`
}

// Prober reports whether a local backend can run.
type Prober interface {
	Probe() error
}

// Configurable reports whether a remote backend has credentials.
type Configurable interface {
	Configured() bool
}

// DetectCapabilities probes the optional backends once. Nil backends count as
// unavailable.
func DetectCapabilities(local Prober, remote Configurable) Capabilities {
	var caps Capabilities
	if local != nil {
		if err := local.Probe(); err != nil {
			caps.LocalDetail = err.Error()
		} else {
			caps.LocalAvailable = true
		}
	} else {
		caps.LocalDetail = "not configured"
	}
	if remote != nil {
		caps.RemoteConfigured = remote.Configured()
	}
	return caps
}

// Attempt records what happened to one strategy during a request.
type Attempt struct {
	Strategy Name   `json:"strategy"`
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Cards    int    `json:"cards,omitempty"`
}

// Result is the normalized output of a pipeline run.
type Result struct {
	Strategy Name
	Cards    []Card
	Attempts []Attempt
}

// Backends holds the optional model backends wired at startup.
type Backends struct {
	Local  Backend
	Remote Backend
}

type stage struct {
	strategy Strategy
	enabled  bool
	reason   string
}

// Pipeline tries strategies in fixed priority (local, remote, deterministic)
// and returns the first non-empty output, normalized to CardCount cards.
type Pipeline struct {
	stages []stage
	caps   Capabilities
	log    *logger.Logger
}

// NewPipeline builds the strategy chain from the startup capabilities.
func NewPipeline(caps Capabilities, backends Backends, log *logger.Logger) *Pipeline {
	localReason := "local models unavailable"
	if caps.LocalDetail != "" {
		localReason += ": " + caps.LocalDetail
	}
	return newPipeline(caps, log,
		stage{
			strategy: NewLocalStrategy(backends.Local, log),
			enabled:  caps.LocalAvailable && backends.Local != nil,
			reason:   localReason,
		},
		stage{
			strategy: NewRemoteStrategy(backends.Remote, log),
			enabled:  caps.RemoteConfigured && backends.Remote != nil,
			reason:   "remote inference not configured",
		},
		stage{strategy: DeterministicStrategy{}, enabled: true},
	)
}

func newPipeline(caps Capabilities, log *logger.Logger, stages ...stage) *Pipeline {
	return &Pipeline{stages: stages, caps: caps, log: log}
}

// Capabilities returns the descriptor the pipeline was built with.
func (p *Pipeline) Capabilities() Capabilities {
	return p.caps
}

// Generate runs the strategies strictly one after another. Once a strategy
// starts it is not cancelled, so the caller's cancellation is detached.
func (p *Pipeline) Generate(ctx context.Context, notes string) (Result, error) {
	if strings.TrimSpace(notes) == "" {
		return Result{}, ErrEmptyNotes
	}
	ctx = context.WithoutCancel(ctx)

	var res Result
	for _, st := range p.stages {
		name := st.strategy.Name()
		if !st.enabled {
			res.Attempts = append(res.Attempts, Attempt{Strategy: name, Skipped: true, Reason: st.reason})
			continue
		}

		out := p.run(ctx, st.strategy, notes)
		if !out.OK() {
			if p.log != nil {
				p.log.Warnw("generator_strategy_failed", "strategy", name, "reason", out.Reason())
			}
			res.Attempts = append(res.Attempts, Attempt{Strategy: name, Reason: out.Reason()})
			continue
		}

		res.Attempts = append(res.Attempts, Attempt{Strategy: name, Cards: len(out.Cards)})
		res.Strategy = name
		res.Cards = Normalize(out.Cards)
		if p.log != nil {
			p.log.Debugw("generator_strategy_succeeded", "strategy", name, "raw_cards", len(out.Cards))
		}
		return res, nil
	}
	return res, ErrNoContent
}

// run converts a panicking strategy into a failed outcome.
func (p *Pipeline) run(ctx context.Context, s Strategy, notes string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failed(s.Name(), fmt.Errorf("panic: %v", r))
		}
	}()
	return s.Generate(ctx, notes)
}
