package models

import "fmt"

// Strategy selects the winning snapshot when local and remote diverge.
type Strategy string

const (
	// StrategyServerWins always keeps the remote snapshot.
	StrategyServerWins Strategy = "serverWins"

	// StrategyClientWins keeps the local snapshot and re-queues it for upload.
	StrategyClientWins Strategy = "clientWins"

	// StrategyLastWriteWins keeps the snapshot with the later updated_at;
	// ties favor remote.
	StrategyLastWriteWins Strategy = "lastWriteWins"

	// StrategyMerge keeps an allow-list of fields from local and everything
	// else from remote.
	StrategyMerge Strategy = "merge"

	// StrategyUserChoice defers resolution: remote is applied provisionally
	// and the conflict is surfaced for an explicit decision.
	StrategyUserChoice Strategy = "userChoice"
)

// DefaultStrategy is used when a sync call does not name one.
const DefaultStrategy = StrategyLastWriteWins

// Valid reports whether the strategy is one of the known policies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyServerWins, StrategyClientWins, StrategyLastWriteWins,
		StrategyMerge, StrategyUserChoice:
		return true
	default:
		return false
	}
}

// ParseStrategy converts a configuration string into a Strategy.
// An empty string yields DefaultStrategy.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return DefaultStrategy, nil
	}

	strategy := Strategy(s)
	if !strategy.Valid() {
		return "", fmt.Errorf("unknown conflict strategy %q", s)
	}

	return strategy, nil
}
