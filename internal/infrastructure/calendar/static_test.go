package calendar_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediario/loan-engine/internal/infrastructure/calendar"
)

func holiday(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestBuildHolidaySet(t *testing.T) {
	t.Run("expands the fixed holidays over the year range", func(t *testing.T) {
		set, err := calendar.BuildHolidaySet(2026, 2027, "")
		require.NoError(t, err)

		assert.True(t, set.IsHoliday(holiday(2026, 1, 1)))
		assert.True(t, set.IsHoliday(holiday(2026, 9, 7)))
		assert.True(t, set.IsHoliday(holiday(2027, 12, 25)))
		assert.False(t, set.IsHoliday(holiday(2028, 1, 1)))
		assert.False(t, set.IsHoliday(holiday(2026, 3, 3)))
	})

	t.Run("merges extra dates from the holiday file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "holidays.txt")
		content := "# movable feasts\n2026-02-17\n\n2026-04-03\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := calendar.BuildHolidaySet(2026, 2026, path)
		require.NoError(t, err)

		assert.True(t, set.IsHoliday(holiday(2026, 2, 17)))
		assert.True(t, set.IsHoliday(holiday(2026, 4, 3)))
		assert.True(t, set.IsHoliday(holiday(2026, 5, 1)))
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "holidays.txt")
		require.NoError(t, os.WriteFile(path, []byte("17/02/2026\n"), 0o644))

		_, err := calendar.BuildHolidaySet(2026, 2026, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse holiday")
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := calendar.BuildHolidaySet(2026, 2026, "/nonexistent/holidays.txt")
		require.Error(t, err)
	})
}
