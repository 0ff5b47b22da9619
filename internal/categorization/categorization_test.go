package categorization

import (
	"testing"

	"newslens/internal/core"
)

func TestHierarchyMatches(t *testing.T) {
	h := DefaultHierarchy()

	if !h.Matches(Politics, "정치>외교") {
		t.Error("Coarse politics category should include 정치>외교")
	}
	if h.Matches(Politics, "경제>무역") {
		t.Error("Coarse politics category should not include 경제>무역")
	}
	if !h.Matches("IT_과학>모바일", "IT_과학>모바일") {
		t.Error("Non-coarse category should match itself exactly")
	}
	if h.Matches("정치>외교", "정치>북한") {
		t.Error("Fine tag should not match a sibling tag")
	}
}

func TestHierarchySubcategories(t *testing.T) {
	h := DefaultHierarchy()

	if got := len(h.Subcategories(Economy)); got != 14 {
		t.Errorf("Expected 14 economy subcategories, got %d", got)
	}
	if got := h.Subcategories("스포츠"); len(got) != 1 || got[0] != "스포츠" {
		t.Errorf("Expected exact category back, got %v", got)
	}
	if !h.IsCoarse(Society) || h.IsCoarse("사회>환경") {
		t.Error("IsCoarse should only report top-level groups")
	}
}

func TestFilterArticles(t *testing.T) {
	h := DefaultHierarchy()
	articles := []core.Article{
		{ID: "1", Category: "정치>외교", PublishedAt: "2024-03-01"},
		{ID: "2", Category: "정치>선거", PublishedAt: "2024-03-03 23:59:00"},
		{ID: "3", Category: "경제>무역", PublishedAt: "2024-03-02"},
		{ID: "4", Category: "정치>북한", PublishedAt: "2024-03-04"},
		{ID: "5", Category: "정치>국회_정당", PublishedAt: "not a date"},
	}

	f, err := ParseFilter("2024-03-01", "2024-03-03", Politics)
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}

	got := h.FilterArticles(articles, f)
	if len(got) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("Expected ids [1 2] in input order, got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestFilterArticles_ExactTag(t *testing.T) {
	h := DefaultHierarchy()
	articles := []core.Article{
		{ID: "1", Category: "정치>외교", PublishedAt: "2024-03-01"},
		{ID: "2", Category: "정치>선거", PublishedAt: "2024-03-01"},
	}

	f, err := ParseFilter("2024-03-01", "2024-03-01", "정치>선거")
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}

	got := h.FilterArticles(articles, f)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Expected only article 2, got %v", got)
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	if _, err := ParseFilter("2024-13-01", "2024-03-01", ""); err == nil {
		t.Error("Expected error for invalid start date")
	}
	if _, err := ParseFilter("2024-03-05", "2024-03-01", ""); err == nil {
		t.Error("Expected error when end precedes start")
	}
}
