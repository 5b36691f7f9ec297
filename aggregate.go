package cellhasher

import (
	"github.com/rs/zerolog/log"
)

// Summary counts a fleet run's outcomes by status.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Errored   int
	TimedOut  int
}

// Aggregate drains results as device operations complete, logging one line
// per device, and returns the collected outcomes with their summary. It
// does not reclassify anything and tolerates runs with zero successes or
// zero failures.
func Aggregate(results <-chan Outcome) ([]Outcome, Summary) {
	var outcomes []Outcome
	var sum Summary
	for res := range results {
		outcomes = append(outcomes, res)
		sum.Total++
		switch res.Status {
		case StatusSuccess:
			sum.Succeeded++
			log.Info().Str("serial", res.DeviceSerial).Msg("device operation succeeded")
		case StatusFailure:
			sum.Failed++
			log.Error().Str("serial", res.DeviceSerial).Str("cause", res.Message).Msg("device operation failed")
		case StatusTimeout:
			sum.TimedOut++
			log.Error().Str("serial", res.DeviceSerial).Str("cause", res.Message).Msg("device operation timed out")
		default:
			sum.Errored++
			log.Error().Str("serial", res.DeviceSerial).Str("cause", res.Message).Msg("device operation errored")
		}
	}
	return outcomes, sum
}

// Log emits the final status line for a completed run.
func (s Summary) Log() {
	log.Info().
		Int("devices", s.Total).
		Int("succeeded", s.Succeeded).
		Int("failed", s.Failed).
		Int("errored", s.Errored).
		Int("timed_out", s.TimedOut).
		Msg("fleet run finished")
}
