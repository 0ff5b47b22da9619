package clustering

import (
	"errors"
	"testing"
	"time"

	"newslens/internal/core"
)

func article(id, published string) core.Article {
	return core.Article{ID: id, Title: "title " + id, PublishedAt: published}
}

func TestGroupByWindow_GreedyStartRelative(t *testing.T) {
	articles := []core.Article{
		article("d5", "2024-01-06 00:00:00"),
		article("d0", "2024-01-01 00:00:00"),
		article("d3", "2024-01-04 00:00:00"), // exactly three days: inclusive
		article("d2", "2024-01-03 12:00:00"),
		article("d3.5", "2024-01-04 12:00:00"),
		article("d7", "2024-01-08 00:00:00"),
	}

	windows, dropped, err := GroupByWindow(articles, 3)
	if err != nil {
		t.Fatalf("GroupByWindow failed: %v", err)
	}
	if dropped != 0 {
		t.Errorf("Expected no dropped articles, got %d", dropped)
	}

	want := [][]string{{"d0", "d2", "d3"}, {"d3.5", "d5"}, {"d7"}}
	if len(windows) != len(want) {
		t.Fatalf("Expected %d windows, got %d", len(want), len(windows))
	}
	for i, w := range windows {
		if len(w) != len(want[i]) {
			t.Fatalf("Window %d: expected %v, got %d articles", i, want[i], len(w))
		}
		for j, a := range w {
			if a.ID != want[i][j] {
				t.Errorf("Window %d position %d: expected %s, got %s", i, j, want[i][j], a.ID)
			}
		}
	}

	for i, w := range windows {
		start, _ := core.ParsePublished(w[0].PublishedAt)
		for _, a := range w {
			ts, _ := core.ParsePublished(a.PublishedAt)
			if ts.Sub(start) > 3*24*time.Hour {
				t.Errorf("Window %d: article %s is more than 3 days after window start", i, a.ID)
			}
		}
	}
}

func TestGroupByWindow_DropsUnparseable(t *testing.T) {
	articles := []core.Article{
		article("a", "2024-01-01 00:00:00"),
		article("b", "soon"),
		article("c", ""),
		article("d", "2024-01-02T10:00:00Z"),
	}

	windows, dropped, err := GroupByWindow(articles, 1)
	if err != nil {
		t.Fatalf("GroupByWindow failed: %v", err)
	}

	total := 0
	for _, w := range windows {
		total += len(w)
	}
	if total+dropped != len(articles) {
		t.Errorf("Expected placed+dropped == %d, got %d+%d", len(articles), total, dropped)
	}
	if dropped != 2 {
		t.Errorf("Expected 2 dropped, got %d", dropped)
	}
}

func TestGroupByWindow_SingleOutOfWindowArticle(t *testing.T) {
	articles := []core.Article{
		article("a", "2024-01-01"),
		article("b", "2024-01-01"),
		article("late", "2024-02-01"),
	}

	windows, _, err := GroupByWindow(articles, 3)
	if err != nil {
		t.Fatalf("GroupByWindow failed: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("Expected 2 windows, got %d", len(windows))
	}
	if len(windows[1]) != 1 || windows[1][0].ID != "late" {
		t.Errorf("Expected lone late article in its own window, got %v", windows[1])
	}
	if windows[0][0].ID != "a" || windows[0][1].ID != "b" {
		t.Error("Expected equal timestamps to keep input order")
	}
}

func TestGroupByWindow_EmptyAndInvalid(t *testing.T) {
	windows, dropped, err := GroupByWindow(nil, 3)
	if err != nil || len(windows) != 0 || dropped != 0 {
		t.Errorf("Expected empty result for empty input, got %v %d %v", windows, dropped, err)
	}

	windows, dropped, err = GroupByWindow([]core.Article{article("x", "never")}, 3)
	if err != nil || len(windows) != 0 || dropped != 1 {
		t.Errorf("Expected no windows and one drop, got %v %d %v", windows, dropped, err)
	}

	if _, _, err := GroupByWindow(nil, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow, got %v", err)
	}
}
