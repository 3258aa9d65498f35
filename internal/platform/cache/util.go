package cache

import (
	"time"
)

const (
	marketTimezone   = "America/New_York"
	marketOpenHour   = 9
	marketOpenMinute = 30
)

// TimeUntilNextMarketOpen は now から次の米国市場の寄付き（ニューヨーク時間 9:30）までの期間を返します。
// 土日は飛ばします。祝日は考慮しません。
func TimeUntilNextMarketOpen(now time.Time) time.Duration {
	loc, err := time.LoadLocation(marketTimezone)
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	local := now.In(loc)

	next := time.Date(local.Year(), local.Month(), local.Day(), marketOpenHour, marketOpenMinute, 0, 0, loc)
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
