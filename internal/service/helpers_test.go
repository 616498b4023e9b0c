package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-register/internal/models"
)

func mustParseID(t *testing.T, raw string) int64 {
	t.Helper()
	id, err := strconv.ParseInt(raw, 10, 64)
	require.NoError(t, err)
	return id
}

func filterRecords(in []models.AttendanceRecord, filter models.AttendanceFilter) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(in))
	for _, r := range in {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
