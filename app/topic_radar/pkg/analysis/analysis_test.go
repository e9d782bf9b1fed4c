package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

func sampleArticles() []model.Article {
	return []model.Article{
		{ID: "a1", Title: "文章一", ReadCount: 100, LikeCount: 5, WatchCount: 5, WxName: "科技早报", IsOriginal: true},
		{ID: "a2", Title: "文章二", ReadCount: 50, LikeCount: 20, WatchCount: 5, WxName: "AI前线"},
		{ID: "a3", Title: "文章三", ReadCount: 10, LikeCount: 1, WatchCount: 0, WxName: "AI前线"},
	}
}

func ids(articles []model.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func TestNormalize_Aliases(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		datum model.Datum
		want  string
	}{
		{"ghid", model.Datum{Ghid: "gh_1", WxID: "wx_1", URL: "https://a"}, "gh_1"},
		{"wx id", model.Datum{WxID: "wx_1", URL: "https://a"}, "wx_1"},
		{"url", model.Datum{URL: "https://a"}, "https://a"},
		{"none", model.Datum{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAt(tt.datum, now).ID; got != tt.want {
				t.Errorf("NormalizeAt().ID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_PublishTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	got := NormalizeAt(model.Datum{PublishTime: 1700000000}, now).PublishTimestamp
	if got != 1700000000000 {
		t.Errorf("epoch seconds: got %d", got)
	}

	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("", 8*3600)).UnixMilli()
	got = NormalizeAt(model.Datum{PublishTimeStr: "2024-01-02 03:04:05"}, now).PublishTimestamp
	if got != want {
		t.Errorf("time string: got %d, want %d", got, want)
	}

	got = NormalizeAt(model.Datum{PublishTimeStr: "昨天"}, now).PublishTimestamp
	if got != now.UnixMilli() {
		t.Errorf("fallback: got %d, want %d", got, now.UnixMilli())
	}
}

func TestNormalize_HugeCounters(t *testing.T) {
	raw := `{"publish_time":1e300,"read":1e300,"praise":-1e300}`
	var d model.Datum
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	a := NormalizeAt(d, time.Now())
	if a.PublishTimestamp <= 0 || a.PublishTimestamp != int64(maxEpochSeconds)*1000 {
		t.Errorf("PublishTimestamp = %d", a.PublishTimestamp)
	}
	if a.ReadCount != math.MaxInt64 || a.LikeCount != 0 {
		t.Errorf("counters = %d/%d", a.ReadCount, a.LikeCount)
	}
}

func TestNormalize_LenientCounters(t *testing.T) {
	raw := `{"ghid":"gh_9","read":"12","praise":-3,"looking":null,"is_original":"1","title":"标题"}`
	var d model.Datum
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	a := NormalizeAt(d, time.Now())
	if a.ReadCount != 12 || a.LikeCount != 0 || a.WatchCount != 0 {
		t.Errorf("counters = %d/%d/%d, want 12/0/0", a.ReadCount, a.LikeCount, a.WatchCount)
	}
	if a.IsOriginal {
		t.Errorf("is_original \"1\" should not count as original")
	}

	if err := json.Unmarshal([]byte(`{"is_original":1}`), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !NormalizeAt(d, time.Now()).IsOriginal {
		t.Errorf("is_original 1 should count as original")
	}
}

func TestEngagementRate_ZeroReads(t *testing.T) {
	got := EngagementRate(model.Article{ReadCount: 0, LikeCount: 5, WatchCount: 5})
	if got != 1000.0 {
		t.Errorf("EngagementRate() = %v, want 1000", got)
	}
}

func TestRanking_Scenario(t *testing.T) {
	articles := sampleArticles()

	if diff := cmp.Diff([]string{"a2", "a1", "a3"}, ids(TopLiked(articles))); diff != "" {
		t.Errorf("TopLiked() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a2", "a1", "a3"}, ids(TopEngagement(articles))); diff != "" {
		t.Errorf("TopEngagement() mismatch (-want +got):\n%s", diff)
	}

	ranked := RankEngagement(articles)
	rates := []float64{ranked[0].EngagementRate, ranked[1].EngagementRate, ranked[2].EngagementRate}
	if diff := cmp.Diff([]float64{50, 10, 10}, rates); diff != "" {
		t.Errorf("RankEngagement() rates mismatch (-want +got):\n%s", diff)
	}

	if articles[0].ID != "a1" {
		t.Errorf("input slice was reordered")
	}
}

func TestRanking_Limits(t *testing.T) {
	var articles []model.Article
	for i := 0; i < 8; i++ {
		articles = append(articles, model.Article{ID: string(rune('a' + i)), ReadCount: int64(i), LikeCount: int64(i)})
	}

	liked := TopLiked(articles)
	if len(liked) != TopN {
		t.Fatalf("TopLiked() len = %d, want %d", len(liked), TopN)
	}
	for i, a := range liked {
		if a.LikeCount <= 0 {
			t.Errorf("TopLiked()[%d] has likeCount %d", i, a.LikeCount)
		}
		if i > 0 && a.LikeCount > liked[i-1].LikeCount {
			t.Errorf("TopLiked() not sorted at %d", i)
		}
	}

	engaged := TopEngagement(articles)
	for i, a := range engaged {
		if a.ReadCount <= 0 {
			t.Errorf("TopEngagement()[%d] has readCount %d", i, a.ReadCount)
		}
	}

	if got := TopLiked(nil); len(got) != 0 {
		t.Errorf("TopLiked(nil) = %v", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords(nil, "人工智能 人工智能 测试", "")
	want := []model.KeywordEntry{{Word: "人工智能", Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractKeywords() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractKeywords_Filters(t *testing.T) {
	got := ExtractKeywords(nil, "12345 12345 abc abc 中 中 ab12 ab12", "")
	if len(got) != 0 {
		t.Errorf("ExtractKeywords() = %v, want empty", got)
	}

	got = ExtractKeywords(nil, "AI芯片，AI芯片|大模型/大模型-大模型", "")
	want := []model.KeywordEntry{{Word: "大模型", Count: 3}, {Word: "AI芯片", Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractKeywords() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractKeywords_SourcesAndTies(t *testing.T) {
	articles := []model.Article{
		{Title: "新能源 汽车", Content: "储能", Classify: "汽车"},
		{Title: "储能", Content: "新能源", Classify: "科技"},
	}
	got := ExtractKeywords(articles, "", "科技")
	want := []model.KeywordEntry{
		{Word: "新能源", Count: 2},
		{Word: "汽车", Count: 2},
		{Word: "储能", Count: 2},
		{Word: "科技", Count: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractKeywords() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractKeywords_Cap(t *testing.T) {
	words := []string{"一号", "二号", "三号", "四号", "五号", "六号", "七号", "八号", "九号", "十号", "十一号", "十二号", "十三号"}
	text := strings.Join(append(words, words...), " ")
	if got := ExtractKeywords(nil, text, ""); len(got) != MaxKeywords {
		t.Errorf("ExtractKeywords() len = %d, want %d", len(got), MaxKeywords)
	}
}

func TestSynthesizeInsights(t *testing.T) {
	if got := SynthesizeInsights(nil, nil, "AI"); len(got) != 0 {
		t.Fatalf("SynthesizeInsights(nil) = %v, want empty", got)
	}

	articles := sampleArticles()
	keywords := []model.KeywordEntry{{Word: "大模型", Count: 4}}
	got := SynthesizeInsights(articles, keywords, "AI")

	var gotIDs []int
	for _, in := range got {
		gotIDs = append(gotIDs, in.ID)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, gotIDs); diff != "" {
		t.Errorf("insight ids mismatch (-want +got):\n%s", diff)
	}
	if got[0].Title != "头部阅读：《文章一》" {
		t.Errorf("top read title = %q", got[0].Title)
	}
	if !strings.Contains(got[1].Description, "《文章二》达到 50.00%") {
		t.Errorf("top engagement description = %q", got[1].Description)
	}
	if !strings.Contains(got[2].Description, "33.3%") {
		t.Errorf("original ratio description = %q", got[2].Description)
	}
	if got[3].Title != "高势能账号：科技早报" {
		t.Errorf("top account title = %q", got[3].Title)
	}
	if !strings.Contains(got[4].Description, "「大模型」出现频次最高（4 次）") {
		t.Errorf("keyword focus description = %q", got[4].Description)
	}
}

func TestSynthesizeInsights_Fallbacks(t *testing.T) {
	articles := []model.Article{{ID: "x", Title: "无名", ReadCount: 1234567}}
	got := SynthesizeInsights(articles, nil, "")
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4 (no account insight)", len(got))
	}
	if !strings.Contains(got[0].Description, "1,234,567") {
		t.Errorf("read count not formatted: %q", got[0].Description)
	}
	if !strings.Contains(got[2].Description, "0.0%") {
		t.Errorf("ratio description = %q", got[2].Description)
	}
	if !strings.Contains(got[3].Description, "「该领域」") {
		t.Errorf("fallback description = %q", got[3].Description)
	}
}

func TestOriginalRatio_Bounds(t *testing.T) {
	if r := OriginalRatio(sampleArticles()); r < 0 || r > 100 {
		t.Errorf("OriginalRatio() = %v", r)
	}
	if r := OriginalRatio(nil); r != 0 {
		t.Errorf("OriginalRatio(nil) = %v", r)
	}
}

func TestFormatThousands(t *testing.T) {
	for in, want := range map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567"} {
		if got := formatThousands(in); got != want {
			t.Errorf("formatThousands(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildSnapshot(t *testing.T) {
	snap := BuildSnapshot(Input{
		Keyword:  "AI",
		Source:   model.DataSourceMock,
		Total:    3,
		Page:     1,
		Articles: sampleArticles(),
	})
	if len(snap.TopLiked) != 3 || len(snap.TopEngagement) != 3 {
		t.Errorf("snapshot rankings = %d/%d", len(snap.TopLiked), len(snap.TopEngagement))
	}
	if snap.KeywordCloud == nil || snap.Insights == nil {
		t.Errorf("snapshot lists should never be nil")
	}

	empty := BuildSnapshot(Input{Keyword: "AI"})
	b, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(b), `"articles":[]`) {
		t.Errorf("empty snapshot should serialise lists as []: %s", b)
	}
}
