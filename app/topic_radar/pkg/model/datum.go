package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Datum kw_search 接口返回的单条文章
type Datum struct {
	Avatar         string `json:"avatar"`
	Classify       string `json:"classify"`
	Content        string `json:"content"`
	Ghid           string `json:"ghid"`
	IPWording      string `json:"ip_wording"`
	IsOriginal     any    `json:"is_original"`
	Looking        Count  `json:"looking"`
	Praise         Count  `json:"praise"`
	PublishTime    Count  `json:"publish_time"`
	PublishTimeStr string `json:"publish_time_str"`
	Read           Count  `json:"read"`
	ShortLink      string `json:"short_link"`
	Title          string `json:"title"`
	UpdateTime     Count  `json:"update_time"`
	UpdateTimeStr  string `json:"update_time_str"`
	URL            string `json:"url"`
	WxID           string `json:"wx_id"`
	WxName         string `json:"wx_name"`
}

// Count 宽松解析的计数字段：数字、数字字符串均可，其余一律为 0
type Count int64

// UnmarshalJSON 实现 json.Unmarshaler，永不返回错误
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = 0
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		*c = countOf(t)
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			*c = countOf(n)
		}
	}
	return nil
}

// countOf 截断为整数，超出 int64 范围时取边界，NaN 与 ±Inf 为 0
func countOf(f float64) Count {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return Count(f)
}
