package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Human-readable identifier prefixes. Codes are minted sequentially at
// creation time and never reused.
const (
	RegistrationNumberPrefix = "ETH2024"
	ContestantNumberPrefix   = "CNT-"
	BulkNumberPrefix         = "BULK-ETH2024"
)

// FormatRegistrationNumber renders the n-th registration code, e.g. ETH2024001.
func FormatRegistrationNumber(n int) string {
	return fmt.Sprintf("%s%03d", RegistrationNumberPrefix, n)
}

// FormatContestantNumber renders the n-th contestant code, e.g. CNT-001.
func FormatContestantNumber(n int) string {
	return fmt.Sprintf("%s%03d", ContestantNumberPrefix, n)
}

// FormatBulkNumber renders the n-th bulk code, e.g. BULK-ETH2024000001.
func FormatBulkNumber(n int) string {
	return fmt.Sprintf("%s%06d", BulkNumberPrefix, n)
}

// NextSequence parses the numeric suffix of the highest existing code and
// returns the successor. An empty or unparsable code starts the sequence at 1.
func NextSequence(highest, prefix string) int {
	if highest == "" || !strings.HasPrefix(highest, prefix) {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(highest, prefix))
	if err != nil {
		return 1
	}
	return n + 1
}
