// Package format 把YouTube返回的原始字段（时间戳、计数、ISO-8601时长）转换成前端直接展示的字符串
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// RelativeDate 按整天数把发布时间渲染成"Today"/"3 days ago"/"1 week ago"这样的相对时间
func RelativeDate(published, now time.Time) string {
	diff := now.Sub(published)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff.Hours() / 24)

	switch {
	case days < 1:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

// RelativeDateString 解析RFC3339时间戳后再渲染，解析失败返回空串
func RelativeDateString(published string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, published)
	if err != nil {
		return ""
	}
	return RelativeDate(t, now)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Count 把播放量/点赞数缩写成 950、1.5K、2M
func Count(raw string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return "0"
	}
	switch {
	case n < 1000:
		return strconv.FormatInt(n, 10)
	case n < 1000000:
		return abbreviate(float64(n)/1000) + "K"
	default:
		return abbreviate(float64(n)/1000000) + "M"
	}
}

func abbreviate(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}

// Duration 把 PT1H30M15S 渲染成 1:30:15，PT5M 渲染成 5:00，格式不对就是 0:00
func Duration(iso string) string {
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return "0:00"
	}
	hours, minutes, seconds := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
