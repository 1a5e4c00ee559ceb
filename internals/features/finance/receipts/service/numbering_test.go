package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReceiptNumber(t *testing.T) {
	assert.Equal(t, "SBS-2026-0001", FormatReceiptNumber("SBS", 2026, 1))
	assert.Equal(t, "SBS-2026-0042", FormatReceiptNumber("SBS", 2026, 42))
	assert.Equal(t, "SBS-2026-12345", FormatReceiptNumber("SBS", 2026, 12345))
}

func TestParseReceiptNumber(t *testing.T) {
	tests := []struct {
		in      string
		prefix  string
		year    int
		seq     int
		wantErr bool
	}{
		{in: "SBS-2026-0001", prefix: "SBS", year: 2026, seq: 1},
		{in: "SBS-2025-0999", prefix: "SBS", year: 2025, seq: 999},
		{in: "nonsense", wantErr: true},
		{in: "SBS-abcd-0001", wantErr: true},
		{in: "SBS-2026-xyz", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			prefix, year, seq, err := ParseReceiptNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.seq, seq)
		})
	}
}

func TestCounterSeed(t *testing.T) {
	tests := []struct {
		name string
		last string
		year int
		want int
	}{
		{name: "same year continues sequence", last: "SBS-2026-0042", year: 2026, want: 42},
		{name: "previous year restarts", last: "SBS-2025-0917", year: 2026, want: 0},
		{name: "future year restarts", last: "SBS-2027-0003", year: 2026, want: 0},
		{name: "malformed number restarts", last: "SBS-none", year: 2026, want: 0},
		{name: "empty number restarts", last: "", year: 2026, want: 0},
		{name: "legacy prefix same year continues", last: "OLD-2026-0007", year: 2026, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CounterSeed(tt.last, tt.year))
		})
	}
}

func TestNumberingMonotonicity(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "SBS")
	year := time.Now().Year()

	// N sequential calls with no interleaving parse back to exactly 1..N
	for i := 1; i <= 25; i++ {
		num, err := svc.NextReceiptNumber(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("SBS-%d-%04d", year, i), num)
	}
}

func TestNumberingYearRollover(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "SBS")

	svc.nowFunc = func() time.Time { return time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC) }
	n1, err := svc.NextReceiptNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SBS-2025-0001", n1)
	n2, err := svc.NextReceiptNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SBS-2025-0002", n2)

	// sequence restarts at 0001 under the new year's prefix
	svc.nowFunc = func() time.Time { return time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC) }
	n3, err := svc.NextReceiptNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SBS-2026-0001", n3)
}

func TestNumberingConcurrentCallersGetDistinctNumbers(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "SBS")

	const n = 50
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			num, err := svc.NextReceiptNumber(context.Background())
			assert.NoError(t, err)
			results <- num
		}()
	}

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		num := <-results
		assert.False(t, seen[num], "duplicate receipt number %s", num)
		seen[num] = true
	}
}
