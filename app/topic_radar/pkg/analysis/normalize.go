package analysis

import (
	"math"
	"strings"
	"time"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

// 接口返回的时间字符串不带时区，按北京时间解析
var cst = time.FixedZone("CST", 8*60*60)

// 秒转毫秒不溢出的上限
const maxEpochSeconds = model.Count(math.MaxInt64 / 1000)

var publishTimeLayouts = []string{
	time.DateTime,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	time.DateOnly,
	time.RFC3339,
}

// Normalize 将第三方文章记录映射为归一化文章，缺失字段使用默认值
func Normalize(d model.Datum) model.Article {
	return NormalizeAt(d, time.Now())
}

// NormalizeAt 同 Normalize，发布时间无法确定时使用 now
func NormalizeAt(d model.Datum, now time.Time) model.Article {
	return model.Article{
		ID:               firstNonEmpty(d.Ghid, d.WxID, d.URL),
		Title:            d.Title,
		CoverURL:         d.Avatar,
		ReadCount:        nonNegative(d.Read),
		LikeCount:        nonNegative(d.Praise),
		WatchCount:       nonNegative(d.Looking),
		PublishTimestamp: publishTimestamp(d, now),
		PublishTimeText:  d.PublishTimeStr,
		IsOriginal:       isOriginal(d.IsOriginal),
		URL:              d.URL,
		ShortLink:        d.ShortLink,
		Classify:         d.Classify,
		WxName:           d.WxName,
		WxID:             d.WxID,
		Content:          d.Content,
	}
}

// NormalizeAll 批量归一化，保持原始顺序
func NormalizeAll(data []model.Datum, now time.Time) []model.Article {
	articles := make([]model.Article, 0, len(data))
	for _, d := range data {
		articles = append(articles, NormalizeAt(d, now))
	}
	return articles
}

func publishTimestamp(d model.Datum, now time.Time) int64 {
	if d.PublishTime > 0 {
		return int64(min(d.PublishTime, maxEpochSeconds)) * 1000
	}
	if t, ok := parsePublishTime(d.PublishTimeStr); ok {
		return t.UnixMilli()
	}
	return now.UnixMilli()
}

func parsePublishTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, cst); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// 只有整数 1 表示原创
func isOriginal(v any) bool {
	f, ok := v.(float64)
	return ok && f == 1
}

func nonNegative(c model.Count) int64 {
	if c < 0 {
		return 0
	}
	return int64(c)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
