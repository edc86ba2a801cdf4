package scheduling

import (
	"errors"
	"testing"
)

func TestFormatSlotZeroPads(t *testing.T) {
	tests := []struct {
		hour, minute int
		period       Period
		want         string
	}{
		{2, 0, PM, "02:00 PM"},
		{10, 5, AM, "10:05 AM"},
		{12, 55, PM, "12:55 PM"},
		{7, 30, PM, "07:30 PM"},
	}
	for _, tt := range tests {
		if got := FormatSlot(tt.hour, tt.minute, tt.period); got != tt.want {
			t.Errorf("FormatSlot(%d,%d,%s) = %q, want %q", tt.hour, tt.minute, tt.period, got, tt.want)
		}
	}
}

func TestParseSlot(t *testing.T) {
	slot, err := ParseSlot("02:00 PM")
	if err != nil {
		t.Fatalf("ParseSlot returned error: %v", err)
	}
	if slot.Hour != 2 || slot.Minute != 0 || slot.Period != PM {
		t.Fatalf("unexpected slot: %+v", slot)
	}

	// legacy rows are hand-entered, tolerate case and single digits
	slot, err = ParseSlot("9:05 am")
	if err != nil {
		t.Fatalf("ParseSlot returned error: %v", err)
	}
	if slot.Hour != 9 || slot.Period != AM {
		t.Fatalf("unexpected slot: %+v", slot)
	}

	for _, bad := range []string{"", "noon", "14:00", "25:00 PM", "02:99 PM", "02-00 PM"} {
		if _, err := ParseSlot(bad); !errors.Is(err, ErrMalformedSlot) {
			t.Errorf("ParseSlot(%q) = %v, want ErrMalformedSlot", bad, err)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, slot := range Grid() {
		parsed, err := ParseSlot(slot.String())
		if err != nil {
			t.Fatalf("ParseSlot(%q) returned error: %v", slot.String(), err)
		}
		if parsed != slot {
			t.Fatalf("round trip mismatch: %+v != %+v", parsed, slot)
		}
	}
}

func TestHour24(t *testing.T) {
	tests := []struct {
		slot Slot
		want int
	}{
		{Slot{Hour: 10, Period: AM}, 10},
		{Slot{Hour: 12, Period: PM}, 12},
		{Slot{Hour: 12, Period: AM}, 0},
		{Slot{Hour: 7, Period: PM}, 19},
	}
	for _, tt := range tests {
		if got := tt.slot.Hour24(); got != tt.want {
			t.Errorf("%s Hour24() = %d, want %d", tt.slot, got, tt.want)
		}
	}
}

func TestBookable(t *testing.T) {
	tests := []struct {
		slot Slot
		want bool
	}{
		{Slot{Hour: 10, Minute: 0, Period: AM}, true},
		{Slot{Hour: 7, Minute: 55, Period: PM}, true},
		{Slot{Hour: 9, Minute: 0, Period: AM}, false},  // before opening
		{Slot{Hour: 8, Minute: 0, Period: PM}, false},  // after closing
		{Slot{Hour: 2, Minute: 3, Period: PM}, false},  // off-grid minute
		{Slot{Hour: 2, Minute: 0, Period: "XX"}, false},
		{Slot{Hour: 0, Minute: 0, Period: PM}, false},  // aliases 12:00 PM
		{Slot{Hour: 13, Minute: 0, Period: AM}, false}, // aliases 01:00 PM
		{Slot{Hour: -1, Minute: 0, Period: AM}, false},
	}
	for _, tt := range tests {
		if got := tt.slot.Bookable(); got != tt.want {
			t.Errorf("%s Bookable() = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestGridBoundsAndGranularity(t *testing.T) {
	grid := Grid()
	if len(grid) != 120 {
		t.Fatalf("expected 120 slots (10 hours x 12), got %d", len(grid))
	}
	if grid[0].String() != "10:00 AM" {
		t.Fatalf("expected grid to open at 10:00 AM, got %s", grid[0])
	}
	if grid[len(grid)-1].String() != "07:55 PM" {
		t.Fatalf("expected grid to close at 07:55 PM, got %s", grid[len(grid)-1])
	}
	for _, slot := range grid {
		if !slot.Bookable() {
			t.Fatalf("grid slot %s not bookable", slot)
		}
	}
}
