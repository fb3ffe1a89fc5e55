package schedule

import "time"

// ancWeeks 世界卫生组织推荐的产检孕周表，40 周为最后一次
var ancWeeks = []int{8, 12, 16, 20, 24, 28, 30, 32, 34, 36, 37, 38, 39, 40}

// FinalWeek 产检计划的最后一个孕周
const FinalWeek = 40

// NextVisitWeek 返回严格大于 currentWeek 的下一个计划孕周。
// 已过最后一周时返回 ok=false。
func NextVisitWeek(currentWeek int) (int, bool) {
	for _, w := range ancWeeks {
		if w > currentWeek {
			return w, true
		}
	}
	return 0, false
}

// NextVisitDate 基于末次月经日期推算下一次产检日期。
// 产检日期 = anchor + 推荐孕周 * 7 天。
func NextVisitDate(currentWeek int, anchor time.Time) (time.Time, int, bool) {
	week, ok := NextVisitWeek(currentWeek)
	if !ok {
		return time.Time{}, 0, false
	}
	return anchor.AddDate(0, 0, week*7), week, true
}
