package model

import (
	"time"

	"gorm.io/datatypes"
)

// DateOf 取 t 所在的日历日，统一为 UTC 零点
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// AddDays 日期加天数
func AddDays(date datatypes.Date, days uint) datatypes.Date {
	return DateOf(time.Time(date).AddDate(0, 0, int(days)))
}

// DateBefore a 是否早于 b（只比较日期）
func DateBefore(a, b datatypes.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
