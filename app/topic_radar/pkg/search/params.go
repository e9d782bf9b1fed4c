package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
)

// 默认搜索参数
const (
	DefaultPeriod   = 7
	MaxPeriod       = 30
	DefaultPage     = 1
	DefaultSize     = 10
	MaxSize         = 50
	DefaultSortType = 1
	DefaultMode     = 1
	DefaultType     = 1
)

// ReasonKeywordRequired 关键词缺失
const ReasonKeywordRequired = "KEYWORD_REQUIRED"

// ErrKeywordRequired 搜索或保存时未提供关键词
var ErrKeywordRequired = errors.BadRequest(ReasonKeywordRequired, "请输入关键词keyword")

// Params 未经处理的搜索参数，数值字段可以是数字、数字字符串或缺省
type Params struct {
	Keyword        any `json:"keyword"`
	Kw             any `json:"kw"`
	Period         any `json:"period"`
	Page           any `json:"page"`
	Size           any `json:"size"`
	SortType       any `json:"sortType"`
	SortTypeAlias  any `json:"sort_type"`
	Mode           any `json:"mode"`
	Type           any `json:"type"`
	AnyKeyword     any `json:"anyKeyword"`
	AnyKw          any `json:"any_kw"`
	ExcludeKeyword any `json:"excludeKeyword"`
	ExKw           any `json:"ex_kw"`
}

// NewRequest 校验关键词并按默认值/范围收敛数值参数
func NewRequest(p Params) (*Request, error) {
	keyword := ReadText(p.Keyword)
	if keyword == "" {
		keyword = ReadText(p.Kw)
	}
	if keyword == "" {
		return nil, ErrKeywordRequired
	}
	return &Request{
		Keyword:        keyword,
		Period:         Clamp(p.Period, DefaultPeriod, 1, MaxPeriod),
		Page:           Clamp(p.Page, DefaultPage, 1, math.MaxInt32),
		Size:           Clamp(p.Size, DefaultSize, 1, MaxSize),
		SortType:       Clamp(coalesce(p.SortType, p.SortTypeAlias), DefaultSortType, 1, math.MaxInt32),
		Mode:           Clamp(p.Mode, DefaultMode, 1, math.MaxInt32),
		Type:           Clamp(p.Type, DefaultType, 1, math.MaxInt32),
		AnyKeyword:     ReadText(coalesce(p.AnyKeyword, p.AnyKw)),
		ExcludeKeyword: ReadText(coalesce(p.ExcludeKeyword, p.ExKw)),
	}, nil
}

// Clamp 解析整数，无法解析时返回 fallback，超出范围时取最近的边界
func Clamp(v any, fallback, min, max int) int {
	n, ok := parseInt(v)
	if !ok {
		return fallback
	}
	if n < int64(min) {
		return min
	}
	if n > int64(max) {
		return max
	}
	return int(n)
}

// ReadText 读取字符串或数字形式的文本并去除首尾空白
func ReadText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

func parseInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(math.Trunc(t)), true
	case string:
		return leadingInt(strings.TrimSpace(t))
	}
	return 0, false
}

// leadingInt 解析字符串开头的整数部分，"12abc" 视为 12
func leadingInt(s string) (int64, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func coalesce(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
