package helper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Couple-App/internal/domain/model"
)

func TestServiceLocation(t *testing.T) {
	loc := ServiceLocation(9)
	name, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, "UTC+9", name)
	assert.Equal(t, 9*60*60, offset)
}

func TestDayWindow(t *testing.T) {
	kst := ServiceLocation(9)

	t.Run("KSTの一日はUTCで前日15時から", func(t *testing.T) {
		start, end, err := DayWindow("2024-03-01", kst)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC), start.UTC())
		assert.Equal(t, time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), end.UTC())
	})

	t.Run("不正な形式", func(t *testing.T) {
		_, _, err := DayWindow("2024/03/01", kst)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidInput))
	})
}

func TestMonthWindow(t *testing.T) {
	kst := ServiceLocation(9)

	t.Run("月末日まで含む", func(t *testing.T) {
		start, end, err := MonthWindow("2024-02", kst)
		require.NoError(t, err)
		assert.True(t, start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, kst)))
		assert.True(t, end.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, kst)))

		lastEvening := time.Date(2024, 2, 29, 23, 30, 0, 0, kst)
		assert.True(t, !lastEvening.Before(start) && lastEvening.Before(end))
	})

	t.Run("12月は翌年1月まで", func(t *testing.T) {
		_, end, err := MonthWindow("2023-12", kst)
		require.NoError(t, err)
		assert.True(t, end.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, kst)))
	})

	t.Run("不正な形式", func(t *testing.T) {
		_, _, err := MonthWindow("2024-13", kst)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestDaysOfMonth(t *testing.T) {
	kst := ServiceLocation(9)

	t.Run("重複を除いて昇順", func(t *testing.T) {
		times := []time.Time{
			time.Date(2024, 5, 3, 18, 0, 0, 0, kst),
			time.Date(2024, 5, 1, 9, 0, 0, 0, kst),
			time.Date(2024, 5, 3, 10, 0, 0, 0, kst),
		}
		assert.Equal(t, []int{1, 3}, DaysOfMonth(times, kst))
	})

	t.Run("日付はサービスのタイムゾーンで判定する", func(t *testing.T) {
		// UTC 5/1 16:00 は KST 5/2 01:00
		times := []time.Time{time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC)}
		assert.Equal(t, []int{2}, DaysOfMonth(times, kst))
	})

	t.Run("空", func(t *testing.T) {
		assert.Empty(t, DaysOfMonth(nil, kst))
	})
}
