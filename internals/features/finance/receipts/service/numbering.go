package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Receipt numbers look like SBS-2026-0001: prefix, calendar year, then a
// zero-padded per-year sequence. The sequence comes from an atomic
// counter row, so concurrent payment completions can never mint the
// same number.

const numberPadding = 4

func FormatReceiptNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, numberPadding, seq)
}

// ParseReceiptNumber splits PREFIX-YEAR-SEQ. Used only when seeding the
// counter from legacy rows; a malformed number is reported, not fixed.
func ParseReceiptNumber(s string) (prefix string, year, seq int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("malformed receipt number %q", s)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed year in receipt number %q", s)
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq < 0 {
		return "", 0, 0, fmt.Errorf("malformed sequence in receipt number %q", s)
	}
	return parts[0], year, seq, nil
}

// CounterSeed decides the initial counter value for a year given the
// newest existing receipt number. Only a parseable number from that
// same year continues the sequence; a prior year, a malformed number
// or no number at all restarts at zero.
func CounterSeed(lastNumber string, year int) int {
	_, y, seq, err := ParseReceiptNumber(lastNumber)
	if err != nil || y != year {
		return 0
	}
	return seq
}
