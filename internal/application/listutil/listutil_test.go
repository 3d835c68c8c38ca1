package listutil

import (
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit", "limit=50&offset=100", 50, 100},
		{"zero limit falls back", "limit=0", DefaultLimit, 0},
		{"negative limit falls back", "limit=-5", DefaultLimit, 0},
		{"limit capped", "limit=9999", MaxLimit, 0},
		{"negative offset clamped", "offset=-3", DefaultLimit, 0},
		{"garbage ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got := ParsePageParams(q)
			if got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
				t.Errorf("got %+v, want limit=%d offset=%d", got, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestParseMonthParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
	}{
		{"defaults", "", 2025, 6},
		{"explicit", "year=2024&month=11", 2024, 11},
		{"month zero passed through", "year=2025&month=0", 2025, 0},
		{"month thirteen passed through", "year=2025&month=13", 2025, 13},
		{"garbage keeps defaults", "year=x&month=y", 2025, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			year, month := ParseMonthParams(q, 2025, 6)
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}
