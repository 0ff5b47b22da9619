package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/core"
)

// memoryRepo is an in-memory ArticleRepository.
type memoryRepo struct {
	articles map[string]core.Article
	batches  []int
	failSave bool
}

func newMemoryRepo(ids ...string) *memoryRepo {
	r := &memoryRepo{articles: make(map[string]core.Article)}
	for _, id := range ids {
		r.articles[id] = core.Article{ID: id}
	}
	return r
}

func (r *memoryRepo) SaveBatch(_ context.Context, articles []core.Article) (int, error) {
	if r.failSave {
		return 0, errors.New("disk full")
	}
	n := 0
	for _, a := range articles {
		if _, ok := r.articles[a.ID]; ok {
			continue
		}
		r.articles[a.ID] = a
		n++
	}
	r.batches = append(r.batches, len(articles))
	return n, nil
}

func (r *memoryRepo) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range ids {
		if _, ok := r.articles[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *memoryRepo) ListByPeriod(context.Context, time.Time, time.Time, []string) ([]core.Article, error) {
	return nil, nil
}

func (r *memoryRepo) ListAll(context.Context) ([]core.Article, error) { return nil, nil }

func (r *memoryRepo) Ping(context.Context) error { return nil }

func (r *memoryRepo) Close() error { return nil }

const header = "\ufeff일자,뉴스식별자,언론사,기고자,제목,분류1,분류2,분류3,본문,출처\n"

func TestImport_SkipsDuplicatesAndMalformedRows(t *testing.T) {
	repo := newMemoryRepo("old")
	importer := NewCSVImporter(repo, 2)

	data := header +
		"2024-03-01,n1,한겨레,홍길동,제목1,정치>외교,,,본문1,한국언론진흥재단\n" +
		"2024-03-01,old,조선일보,,제목2,정치>선거,,,본문2,\n" +
		"03/01/2024,n3,경향신문,,제목3,정치>외교,,,본문3,\n" +
		"2024-03-02,n4,동아일보,,제목4,경제>무역,,,본문4,\n" +
		"2024-03-02,n1,한겨레,,중복,정치>외교,,,중복,\n" +
		"2024-03-03,n5,중앙일보,,제목5,사회>환경,,,본문5,\n"

	stats, err := importer.Import(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Imported)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []int{2, 1}, repo.batches)

	got := repo.articles["n1"]
	assert.Equal(t, "한겨레", got.Press)
	assert.Equal(t, "홍길동", got.Author)
	assert.Equal(t, "정치>외교", got.Category)
	assert.Equal(t, "2024-03-01", got.PublishedAt)
	assert.Equal(t, "본문1", got.Content)
}

func TestImport_MissingRequiredColumn(t *testing.T) {
	importer := NewCSVImporter(newMemoryRepo(), 0)

	_, err := importer.Import(context.Background(), strings.NewReader("제목,본문\nx,y\n"))
	assert.ErrorContains(t, err, ColumnDate)
}

func TestImport_SaveErrorPropagates(t *testing.T) {
	repo := newMemoryRepo()
	repo.failSave = true
	importer := NewCSVImporter(repo, 10)

	_, err := importer.Import(context.Background(), strings.NewReader(header+"2024-03-01,n1,a,,t,c,,,b,\n"))
	assert.ErrorContains(t, err, "disk full")
}

func TestImportFiles(t *testing.T) {
	dir := t.TempDir()
	good := header + "2024-03-01,a1,한겨레,,제목,정치>외교,,,본문,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "news_1.csv"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "news_2.csv"), []byte("broken header\n"), 0o644))
	second := header + "2024-03-02,a2,조선일보,,제목,정치>외교,,,본문,\n2024-03-02,a1,한겨레,,제목,정치>외교,,,본문,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "news_3.csv"), []byte(second), 0o644))

	repo := newMemoryRepo()
	stats, err := NewCSVImporter(repo, 0).ImportFiles(context.Background(), filepath.Join(dir, "news_*.csv"))
	require.NoError(t, err)

	assert.Equal(t, ImportStats{Files: 2, Imported: 2, Skipped: 1}, stats)
	assert.Len(t, repo.articles, 2)
}

func TestImportFiles_NoMatch(t *testing.T) {
	_, err := NewCSVImporter(newMemoryRepo(), 0).ImportFiles(context.Background(), filepath.Join(t.TempDir(), "*.csv"))
	assert.ErrorIs(t, err, ErrNoFiles)
}
