package config

import (
	"testing"
	"time"
)

func TestStringTrimsAndFallsBack(t *testing.T) {
	t.Setenv("CH_TEST_STR", "  value  ")
	if got := String("CH_TEST_STR", "fb"); got != "value" {
		t.Errorf("String = %q, want trimmed value", got)
	}
	if got := String("CH_TEST_UNSET", "fb"); got != "fb" {
		t.Errorf("String fallback = %q, want fb", got)
	}
	t.Setenv("CH_TEST_BLANK", "   ")
	if got := String("CH_TEST_BLANK", "fb"); got != "fb" {
		t.Errorf("blank value returned %q, want fallback", got)
	}
}

func TestDevicesSplitsOnWhitespace(t *testing.T) {
	t.Setenv("CH_TEST_DEVICES", "  emulator-5554 R58M123ABC\t192.168.1.20:5555 ")
	got := Devices("CH_TEST_DEVICES")
	want := []string{"emulator-5554", "R58M123ABC", "192.168.1.20:5555"}
	if len(got) != len(want) {
		t.Fatalf("Devices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Devices[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := Devices("CH_TEST_NO_DEVICES"); len(got) != 0 {
		t.Errorf("unset devices = %v, want empty", got)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("CH_TEST_DUR", "250ms")
	if got := Duration("CH_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("Duration = %v, want 250ms", got)
	}
	t.Setenv("CH_TEST_DUR_BAD", "soon")
	if got := Duration("CH_TEST_DUR_BAD", time.Second); got != time.Second {
		t.Errorf("invalid duration = %v, want fallback", got)
	}
}
