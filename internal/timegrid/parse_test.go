package timegrid

import "testing"

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantStart string
		wantEnd   string
		wantOK    bool
	}{
		{"纯小时", "10-18", "10:00", "18:00", true},
		{"带分钟", "10:00-18:00", "10:00", "18:00", true},
		{"全角冒号", "10：30-18：00", "10:30", "18:00", true},
		{"全角波浪线", "10～18", "10:00", "18:00", true},
		{"日文時标记", "10時-18時", "10:00", "18:00", true},
		{"空白分隔的两个数字", "10 18", "10:00", "18:00", true},
		{"前后有空白", "  9-12  ", "09:00", "12:00", true},
		{"分钟越界钳制", "10:75-18:00", "10:59", "18:00", true},
		{"小时越界钳制", "25-26", "23:00", "23:59", true},
		{"开始不早于结束", "18-10", "", "", false},
		{"开始等于结束", "10-10", "", "", false},
		{"空输入", "", "", "", false},
		{"纯空白", "   ", "", "", false},
		{"无法识别的文本", "上午到下午", "", "", false},
		{"只有一个数字", "10", "", "", false},
		{"三个数字", "10 12 18", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseTimeRange(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseTimeRange(%q) ok = %v, 期望 %v", tt.raw, ok, tt.wantOK)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Fatalf("ParseTimeRange(%q) = (%q, %q), 期望 (%q, %q)", tt.raw, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParseTimeRangeIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		start, end, ok := ParseTimeRange("10：30～18時")
		if !ok || start != "10:30" || end != "18:00" {
			t.Fatalf("第 %d 次解析结果不一致: (%q, %q, %v)", i+1, start, end, ok)
		}
	}
}

func TestClockConversionRoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00", "09:05", "12:30", "23:59"} {
		if got := MinutesToClock(ClockToMinutes(clock)); got != clock {
			t.Fatalf("MinutesToClock(ClockToMinutes(%q)) = %q", clock, got)
		}
	}
}
