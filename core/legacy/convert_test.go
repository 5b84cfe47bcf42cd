package legacy

import (
	"strings"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func TestParseLegacyDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{name: "iso timestamp", in: "2009-03-15T00:00:00", want: time.Date(2009, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "iso date", in: "2009-03-15", want: time.Date(2009, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "us slash date", in: "3/15/2009", want: time.Date(2009, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "surrounding spaces", in: "  2009-03-15  ", want: time.Date(2009, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "month name", in: "Mar 15, 2009", want: time.Date(2009, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "empty", in: ""},
		{name: "garbage", in: "not a date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLegacyDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseLegacyDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseLegacyDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantHour   int
		wantMinute int
		ok         bool
	}{
		{name: "clock with seconds", in: "09:30:00", wantHour: 9, wantMinute: 30, ok: true},
		{name: "clock without seconds", in: "14:05", wantHour: 14, wantMinute: 5, ok: true},
		{name: "access epoch timestamp", in: "1899-12-30T16:15:00", wantHour: 16, wantMinute: 15, ok: true},
		{name: "am/pm", in: "4:15 PM", wantHour: 16, wantMinute: 15, ok: true},
		{name: "empty", in: ""},
		{name: "garbage", in: "noon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimeOfDay(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseTimeOfDay(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && (got.Hour() != tt.wantHour || got.Minute() != tt.wantMinute) {
				t.Errorf("parseTimeOfDay(%q) = %v, want %02d:%02d", tt.in, got, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestParseTimeOfDayNormalizesDate(t *testing.T) {
	// values parsed from different layouts must compare directly
	early, _ := parseTimeOfDay("09:00:00")
	late, _ := parseTimeOfDay("1899-12-30T10:30:00")
	if !late.After(early) {
		t.Errorf("expected %v to be after %v", late, early)
	}
}

func TestParseLegacyBool(t *testing.T) {
	truthy := []string{"1", "-1", "true", "TRUE", "yes", "Y", " -1 "}
	for _, in := range truthy {
		if !parseLegacyBool(in) {
			t.Errorf("parseLegacyBool(%q) = false, want true", in)
		}
	}
	falsy := []string{"", "0", "false", "no", "whatever"}
	for _, in := range falsy {
		if parseLegacyBool(in) {
			t.Errorf("parseLegacyBool(%q) = true, want false", in)
		}
	}
}

func TestTruncate(t *testing.T) {
	var warns []MappingWarning

	short := strings.Repeat("a", 255)
	if got := truncate("Name", short, &warns); got != short {
		t.Errorf("truncate() altered a value within the limit")
	}
	if len(warns) != 0 {
		t.Fatalf("truncate() warned on a value within the limit: %+v", warns)
	}

	long := strings.Repeat("b", 300)
	got := truncate("Name", long, &warns)
	if len([]rune(got)) != 255 {
		t.Errorf("truncate() len = %d, want 255", len([]rune(got)))
	}
	if len(warns) != 1 {
		t.Fatalf("truncate() warnings = %d, want 1", len(warns))
	}
	w := warns[0]
	if w.Field != "Name" {
		t.Errorf("warning field = %q, want %q", w.Field, "Name")
	}
	if !strings.Contains(w.Message, "300") || !strings.Contains(w.Message, "255") {
		t.Errorf("warning message %q does not name both lengths", w.Message)
	}
	if w.OriginalValue.String != long || w.MappedValue.String != got {
		t.Errorf("warning does not carry original and mapped values")
	}
}

func TestIDSet(t *testing.T) {
	var disabled *IDSet
	if disabled.Enabled() {
		t.Error("nil set reports Enabled")
	}
	if disabled.Contains(1) {
		t.Error("nil set reports Contains")
	}

	empty := NewIDSet()
	if !empty.Enabled() {
		t.Error("empty set reports disabled")
	}
	if empty.Contains(1) {
		t.Error("empty set contains 1")
	}

	s := NewIDSet(1, 2, 3)
	if !s.Contains(2) || s.Contains(4) {
		t.Errorf("NewIDSet(1,2,3) membership wrong")
	}
}

func TestTrimmed(t *testing.T) {
	tests := []struct {
		name string
		in   null.String
		want null.String
	}{
		{name: "null stays null", in: null.String{}, want: null.String{}},
		{name: "spaces trimmed", in: null.StringFrom("  hi  "), want: null.StringFrom("hi")},
		{name: "blank becomes null", in: null.StringFrom("   "), want: null.String{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimmed(tt.in); got != tt.want {
				t.Errorf("trimmed(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
