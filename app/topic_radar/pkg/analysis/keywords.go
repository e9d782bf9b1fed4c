package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

// MaxKeywords 词云最多保留的词条数
const MaxKeywords = 12

const separators = ",，。、“”‘’\"'；;·|/\\-"

// ExtractKeywords 统计分词串、文章标题/正文/分类以及当前关键词中的高频词。
// 只保留出现次数大于 1 的词，按次数降序，并列时先出现的词在前。
func ExtractKeywords(articles []model.Article, rawCutWords, activeKeyword string) []model.KeywordEntry {
	freq := newFrequency()

	if rawCutWords != "" {
		freq.collect(rawCutWords)
	}
	for _, a := range articles {
		freq.collect(a.Title)
		freq.collect(a.Content)
		freq.collect(a.Classify)
	}
	if activeKeyword != "" {
		freq.collect(activeKeyword)
	}

	entries := make([]model.KeywordEntry, 0, len(freq.order))
	for _, word := range freq.order {
		if n := freq.counts[word]; n > 1 {
			entries = append(entries, model.KeywordEntry{Word: word, Count: n})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return head(entries, MaxKeywords)
}

// SplitWords 按空白与常见中英文标点切分，并过滤无意义词
func SplitWords(text string) []string {
	fields := strings.FieldsFunc(text, isSeparator)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimSpace(f)
		if IsMeaningfulKeyword(w) {
			words = append(words, w)
		}
	}
	return words
}

// IsMeaningfulKeyword 至少两个字符且包含汉字；纯数字、纯字母直接过滤
func IsMeaningfulKeyword(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	if allRunes(word, isASCIIDigit) || allRunes(word, isASCIILetter) {
		return false
	}
	for _, r := range word {
		if isCJK(r) {
			return true
		}
	}
	return false
}

type frequency struct {
	counts map[string]int
	order  []string
}

func newFrequency() *frequency {
	return &frequency{counts: make(map[string]int)}
}

func (f *frequency) collect(text string) {
	for _, w := range SplitWords(text) {
		if _, seen := f.counts[w]; !seen {
			f.order = append(f.order, w)
		}
		f.counts[w]++
	}
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(separators, r)
}

func isCJK(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}
