package cellhasher

import "testing"

func feed(outcomes ...Outcome) <-chan Outcome {
	ch := make(chan Outcome, len(outcomes))
	for _, o := range outcomes {
		ch <- o
	}
	close(ch)
	return ch
}

func TestAggregateCountsByStatus(t *testing.T) {
	outcomes, sum := Aggregate(feed(
		Outcome{DeviceSerial: "D1", Status: StatusSuccess},
		Outcome{DeviceSerial: "D2", Status: StatusFailure, Message: "INSTALL_FAILED"},
		Outcome{DeviceSerial: "D3", Status: StatusError, Message: "panic: boom"},
		Outcome{DeviceSerial: "D4", Status: StatusTimeout, Message: "deadline"},
		Outcome{DeviceSerial: "D5", Status: StatusSuccess},
	))
	if len(outcomes) != 5 {
		t.Fatalf("got %d outcomes, want 5", len(outcomes))
	}
	want := Summary{Total: 5, Succeeded: 2, Failed: 1, Errored: 1, TimedOut: 1}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
}

func TestAggregateToleratesZeroFailures(t *testing.T) {
	_, sum := Aggregate(feed(Outcome{DeviceSerial: "ONLY", Status: StatusSuccess}))
	if sum.Total != 1 || sum.Succeeded != 1 || sum.Failed != 0 {
		t.Errorf("summary = %+v, want one success and nothing else", sum)
	}
}

func TestAggregateToleratesZeroSuccesses(t *testing.T) {
	_, sum := Aggregate(feed(Outcome{DeviceSerial: "ONLY", Status: StatusFailure, Message: "offline"}))
	if sum.Total != 1 || sum.Failed != 1 || sum.Succeeded != 0 {
		t.Errorf("summary = %+v, want one failure and nothing else", sum)
	}
}
