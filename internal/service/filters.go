package service

import "time"

// HistoryFilter narrows the generation audit trail by time range and strategy.
type HistoryFilter struct {
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	Strategy string    // "", "LOCAL", "REMOTE", "DETERMINISTIC"
}
