package service

import "notecards/internal/generator"

// CapabilityReport describes the startup probe and the strategy order a
// generation request walks through.
type CapabilityReport struct {
	generator.Capabilities
	Strategies []StrategyStatus `json:"strategies"`
}

type StrategyStatus struct {
	Name    generator.Name `json:"name"`
	Enabled bool           `json:"enabled"`
}

type CapabilityService struct {
	report CapabilityReport
}

// NewCapabilityService snapshots caps; the report never changes afterwards.
func NewCapabilityService(caps generator.Capabilities) *CapabilityService {
	return &CapabilityService{report: CapabilityReport{
		Capabilities: caps,
		Strategies: []StrategyStatus{
			{Name: generator.Local, Enabled: caps.LocalAvailable},
			{Name: generator.Remote, Enabled: caps.RemoteConfigured},
			{Name: generator.Deterministic, Enabled: true},
		},
	}}
}

func (s *CapabilityService) Describe() CapabilityReport {
	out := s.report
	out.Strategies = append([]StrategyStatus(nil), s.report.Strategies...)
	return out
}
