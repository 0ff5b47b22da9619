package categorization

import "sort"

// Coarse category names used by the news archive.
const (
	Politics = "정치"
	Economy  = "경제"
	Society  = "사회"
)

// Hierarchy maps a coarse category to the fine-grained tags it covers.
type Hierarchy map[string]map[string]struct{}

// DefaultHierarchy returns the category table of the news archive (분류1 values).
func DefaultHierarchy() Hierarchy {
	return NewHierarchy(map[string][]string{
		Politics: {
			"정치>행정_자치",
			"정치>북한",
			"정치>국회_정당",
			"정치>외교",
			"정치>정치일반",
			"정치>선거",
			"정치>청와대",
		},
		Economy: {
			"경제>자원",
			"경제>부동산",
			"경제>금융_제테크",
			"경제>경제일반",
			"경제>자동차",
			"경제>반도체",
			"경제>산업_기업",
			"경제>무역",
			"경제>서비스_쇼핑",
			"경제>증권_증시",
			"경제>외환",
			"경제>취업_창업",
			"경제>유통",
			"경제>국제경제",
		},
		Society: {
			"사회>의료_건강",
			"사회>환경",
			"사회>사건_사고",
			"사회>여성",
			"사회>장애인",
			"사회>날씨",
			"사회>노동_복지",
			"사회>사회일반",
			"사회>미디어",
			"사회>교육_시험",
		},
	})
}

// NewHierarchy builds a Hierarchy from plain slices, e.g. from configuration.
func NewHierarchy(groups map[string][]string) Hierarchy {
	h := make(Hierarchy, len(groups))
	for coarse, tags := range groups {
		set := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			set[tag] = struct{}{}
		}
		h[coarse] = set
	}
	return h
}

// IsCoarse reports whether category names a coarse group.
func (h Hierarchy) IsCoarse(category string) bool {
	_, ok := h[category]
	return ok
}

// Subcategories returns the sorted fine tags of a coarse category.
// For any other category it returns the category itself.
func (h Hierarchy) Subcategories(category string) []string {
	set, ok := h[category]
	if !ok {
		return []string{category}
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Matches reports whether an article tag belongs to category.
// Coarse categories match by membership; anything else is an exact match.
func (h Hierarchy) Matches(category, tag string) bool {
	if set, ok := h[category]; ok {
		_, member := set[tag]
		return member
	}
	return category == tag
}
