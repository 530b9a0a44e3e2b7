package llm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// RepairStats records what the repair step did to a response.
type RepairStats struct {
	WasRepaired   bool
	OriginalBytes int
	RepairedBytes int
	RepairTime    time.Duration
}

// RepairJSON returns input unchanged when it is already valid JSON;
// otherwise it runs the repair library over it. The possibly-repaired text
// is returned even on failure so callers can log it.
func RepairJSON(input string) (string, RepairStats, error) {
	stats := RepairStats{
		OriginalBytes: len(input),
		RepairedBytes: len(input),
	}
	if json.Valid([]byte(input)) {
		return input, stats, nil
	}

	start := time.Now()
	repaired, err := jsonrepair.JSONRepair(input)
	stats.RepairTime = time.Since(start)
	if err != nil {
		return input, stats, fmt.Errorf("repairing json: %w", err)
	}
	stats.WasRepaired = true
	stats.RepairedBytes = len(repaired)
	return repaired, stats, nil
}
