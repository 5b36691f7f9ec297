// Package cellhasher orchestrates adb operations across a fleet of Android
// devices: one shared downloaded artifact, one concurrent operation per
// device, one isolated outcome per device.
package cellhasher

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// Status classifies a per-device outcome.
type Status string

const (
	// StatusSuccess means the bridge reported the operation as applied.
	StatusSuccess Status = "success"
	// StatusFailure means the bridge ran but reported failure.
	StatusFailure Status = "failure"
	// StatusError means the orchestration itself failed for that device.
	StatusError Status = "error"
	// StatusTimeout means the bridge invocation hit the configured deadline.
	StatusTimeout Status = "timeout"
)

// Outcome is the immutable result of one device's operation. Outcomes are
// never retried.
type Outcome struct {
	DeviceSerial string
	Status       Status
	Message      string
}

// Operation runs one unit of work against a single device and must report
// its own result; it is expected not to panic, but a panic is contained.
type Operation func(ctx context.Context, serial string) Outcome

// RunAcrossFleet launches op once per serial, all concurrently, and returns
// a channel that yields outcomes in completion order. The channel is closed
// once every device has reported. A panic inside one device's operation
// becomes a StatusError outcome for that device only; siblings keep running.
func RunAcrossFleet(ctx context.Context, serials []string, op Operation) <-chan Outcome {
	results := make(chan Outcome, len(serials))
	var wg sync.WaitGroup
	for _, serial := range serials {
		wg.Add(1)
		go func(serial string) {
			defer wg.Done()
			results <- runIsolated(ctx, serial, op)
		}(serial)
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// runIsolated converts a panic into an error outcome. The stack goes to
// stderr rather than the structured logger: the panic may have come from
// the logger itself.
func runIsolated(ctx context.Context, serial string, op Operation) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "WARN: operation on %s panicked: %v\n%s\n", serial, r, debug.Stack())
			outcome = Outcome{
				DeviceSerial: serial,
				Status:       StatusError,
				Message:      fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return op(ctx, serial)
}
