package categorization

import (
	"strings"

	"newslens/internal/core"
)

// general tags used when an article can only be placed in a coarse group.
var generalTags = map[string]string{
	Politics: "정치>정치일반",
	Economy:  "경제>경제일반",
	Society:  "사회>사회일반",
}

// Categorizer assigns archive tags to articles whose source category does not
// follow the archive's "coarse>fine" scheme, such as RSS items.
type Categorizer struct {
	hierarchy Hierarchy
	keywords  map[string][]string
	order     []string
}

// DefaultKeywords returns the title keywords that identify each coarse group.
func DefaultKeywords() map[string][]string {
	return map[string][]string{
		Politics: {"국회", "대통령", "정당", "여당", "야당", "총선", "대선", "선거", "외교", "북한", "장관", "의원", "청와대", "대통령실"},
		Economy:  {"경제", "금리", "증시", "주가", "코스피", "환율", "수출", "무역", "부동산", "반도체", "기업", "물가", "투자", "은행"},
		Society:  {"경찰", "검찰", "사고", "화재", "병원", "의료", "백신", "코로나", "교육", "학교", "날씨", "환경", "노동", "복지"},
	}
}

// NewCategorizer builds a categorizer over hierarchy. Groups are tried in
// the order politics, economy, society; a nil keywords map uses DefaultKeywords.
func NewCategorizer(hierarchy Hierarchy, keywords map[string][]string) *Categorizer {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &Categorizer{
		hierarchy: hierarchy,
		keywords:  keywords,
		order:     []string{Politics, Economy, Society},
	}
}

// Categorize returns the archive tag for article.
//
// A category that is already a known tag is kept. A source category naming a
// coarse group, or starting with one, maps to that group's general tag. Otherwise
// the title is matched against the keyword lists and the group with the most hits
// wins, ties going to the earlier group. Articles matching nothing keep their
// original category.
func (c *Categorizer) Categorize(article core.Article) string {
	category := strings.TrimSpace(article.Category)
	if c.isKnownTag(category) {
		return category
	}
	for _, coarse := range c.order {
		if category != "" && strings.HasPrefix(category, coarse) {
			return c.generalTag(coarse)
		}
	}

	best, bestHits := "", 0
	for _, coarse := range c.order {
		hits := 0
		for _, keyword := range c.keywords[coarse] {
			if strings.Contains(article.Title, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = coarse, hits
		}
	}
	if best == "" {
		return article.Category
	}
	return c.generalTag(best)
}

// Apply categorizes articles in place and returns how many changed.
func (c *Categorizer) Apply(articles []core.Article) int {
	changed := 0
	for i := range articles {
		tag := c.Categorize(articles[i])
		if tag != articles[i].Category {
			articles[i].Category = tag
			changed++
		}
	}
	return changed
}

func (c *Categorizer) isKnownTag(category string) bool {
	for _, tags := range c.hierarchy {
		if _, ok := tags[category]; ok {
			return true
		}
	}
	return false
}

func (c *Categorizer) generalTag(coarse string) string {
	if tag, ok := generalTags[coarse]; ok && c.hierarchy.Matches(coarse, tag) {
		return tag
	}
	return coarse
}
