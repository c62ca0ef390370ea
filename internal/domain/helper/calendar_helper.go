package helper

import (
	"fmt"
	"sort"
	"time"

	"Couple-App/internal/domain/model"
)

// ServiceLocation 日付境界の基準となる固定オフセットのタイムゾーンを作る
func ServiceLocation(offsetHours int) *time.Location {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return time.FixedZone(name, offsetHours*60*60)
}

// DayWindow "YYYY-MM-DD" を loc における [00:00, 翌日00:00) の範囲に変換する
func DayWindow(day string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(model.DateLayout, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, &model.FieldError{Field: "date", Message: "日付はYYYY-MM-DD形式で指定してください"}
	}
	return start, start.AddDate(0, 0, 1), nil
}

// MonthWindow "YYYY-MM" を loc における [1日00:00, 翌月1日00:00) の範囲に変換する
func MonthWindow(yearMonth string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(model.MonthLayout, yearMonth, loc)
	if err != nil {
		return time.Time{}, time.Time{}, &model.FieldError{Field: "year_month", Message: "年月はYYYY-MM形式で指定してください"}
	}
	return start, start.AddDate(0, 1, 0), nil
}

// DaysOfMonth 時刻列から loc における日付（日）の重複を除いて昇順で返す
func DaysOfMonth(times []time.Time, loc *time.Location) []int {
	seen := make(map[int]struct{})
	days := make([]int, 0)
	for _, t := range times {
		d := t.In(loc).Day()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
