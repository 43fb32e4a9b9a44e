package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/config"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/fetcher"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/pipeline"

	"github.com/stretchr/testify/require"
)

// fakeFetcher отдаёт заранее заданные тела документов по имени источника.
type fakeFetcher struct {
	bodies map[string]string
	calls  int
}

func (f *fakeFetcher) FetchAll(_ context.Context, srcs []models.Source) []fetcher.Document {
	f.calls++
	docs := make([]fetcher.Document, len(srcs))
	for i, src := range srcs {
		docs[i] = fetcher.Document{Source: src, Body: f.bodies[src.Name]}
	}
	return docs
}

type fakeSynth struct {
	err     error
	batches [][]models.Item
}

func (f *fakeSynth) SynthesizeBatch(_ context.Context, batch []models.Item) (*models.Synthesis, error) {
	f.batches = append(f.batches, batch)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Synthesis{
		Title:    "Synthesized: " + batch[0].Title,
		Summary:  "Neutral summary",
		Category: models.CategoryOther,
	}, nil
}

type fakeStore struct {
	err   error
	calls int
	rows  []models.Synthesis
	stamp time.Time
}

func (f *fakeStore) InsertNews(_ context.Context, syntheses []models.Synthesis, publishedAt time.Time) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.rows = syntheses
	f.stamp = publishedAt
	return len(syntheses), nil
}

type fakePublisher struct {
	err       error
	published []models.News
}

func (f *fakePublisher) PublishNews(_ context.Context, news models.News) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, news)
	return nil
}

// makeRSS собирает валидный RSS-документ с n публикациями.
func makeRSS(prefix string, n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss><channel>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<item><title>%s title %d</title><description>%s description %d</description><link>http://example.com/%s/%d</link></item>`,
			prefix, i, prefix, i, prefix, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func testConfig(ingest, searchN int) *config.Config {
	cfg := config.Default()
	cfg.IngestSources = nil
	for i := 0; i < ingest; i++ {
		cfg.IngestSources = append(cfg.IngestSources, models.Source{
			Name: fmt.Sprintf("S%d", i), URL: fmt.Sprintf("https://example.com/%d", i),
		})
	}
	cfg.SearchSources = nil
	for i := 0; i < searchN; i++ {
		cfg.SearchSources = append(cfg.SearchSources, models.Source{
			Name: fmt.Sprintf("Q%d", i), URL: fmt.Sprintf("https://example.com/q/%d", i),
		})
	}
	return cfg
}

func TestRun_CapsItemsForSynthesis(t *testing.T) {
	cfg := testConfig(5, 0)
	bodies := make(map[string]string)
	for i := 0; i < 5; i++ {
		// По 8 публикаций на источник; на источник берутся 5, всего к синтезу не более 15
		bodies[fmt.Sprintf("S%d", i)] = makeRSS(fmt.Sprintf("s%d", i), 8)
	}

	synth := &fakeSynth{}
	store := &fakeStore{}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, synth, store, nil)

	result := p.Run(context.Background())
	require.True(t, result.Success)

	total := 0
	for _, batch := range synth.batches {
		total += len(batch)
	}
	require.Equal(t, 15, total)
	require.Len(t, synth.batches, 5) // ceil(15/3)
	for _, batch := range synth.batches {
		require.Len(t, batch, 3)
	}
}

func TestRun_NoItemsFetched(t *testing.T) {
	cfg := testConfig(5, 0)
	synth := &fakeSynth{}
	store := &fakeStore{}
	p := pipeline.New(cfg, &fakeFetcher{bodies: map[string]string{}}, synth, store, nil)

	result := p.Run(context.Background())
	require.False(t, result.Success)
	require.Equal(t, "No items fetched from RSS feeds", result.Error)
	require.Empty(t, synth.batches)
	require.Zero(t, store.calls)
}

func TestRun_AllBatchesFail(t *testing.T) {
	cfg := testConfig(2, 0)
	bodies := map[string]string{"S0": makeRSS("a", 3), "S1": makeRSS("b", 3)}
	synth := &fakeSynth{err: errors.New("upstream 500")}
	store := &fakeStore{}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, synth, store, nil)

	result := p.Run(context.Background())
	require.False(t, result.Success)
	require.Equal(t, "AI synthesis failed", result.Error)
	require.Zero(t, store.calls)
}

func TestRun_PersistsInSingleBulkCall(t *testing.T) {
	cfg := testConfig(2, 0)
	bodies := map[string]string{"S0": makeRSS("a", 3), "S1": makeRSS("b", 3)}
	synth := &fakeSynth{}
	store := &fakeStore{}
	pub := &fakePublisher{}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, synth, store, pub)

	before := time.Now().UTC()
	result := p.Run(context.Background())
	after := time.Now().UTC()

	require.True(t, result.Success)
	require.Equal(t, 2, result.Count) // 6 публикаций → 2 группы по 3
	require.Equal(t, 1, store.calls)
	require.Len(t, store.rows, 2)
	// Временная метка публикации проставлена в окне прогона
	require.False(t, store.stamp.Before(before))
	require.False(t, store.stamp.After(after))

	require.Len(t, pub.published, 2)
	require.Equal(t, store.stamp, pub.published[0].PublishedAt)
}

func TestRun_StoreErrorSurfaced(t *testing.T) {
	cfg := testConfig(1, 0)
	bodies := map[string]string{"S0": makeRSS("a", 3)}
	store := &fakeStore{err: errors.New("insert failed: connection reset")}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, &fakeSynth{}, store, nil)

	result := p.Run(context.Background())
	require.False(t, result.Success)
	require.Equal(t, "insert failed: connection reset", result.Error)
}

func TestRun_PublisherFailureDoesNotFailRun(t *testing.T) {
	cfg := testConfig(1, 0)
	bodies := map[string]string{"S0": makeRSS("a", 3)}
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, &fakeSynth{}, &fakeStore{}, pub)

	result := p.Run(context.Background())
	require.True(t, result.Success)
	require.Equal(t, 1, result.Count)
}

func TestRun_SkippedBatchesDegradeGracefully(t *testing.T) {
	// Первая группа падает, остальные проходят: прогон успешен с меньшим числом новостей
	cfg := testConfig(2, 0)
	bodies := map[string]string{"S0": makeRSS("a", 3), "S1": makeRSS("b", 3)}

	synth := &failFirstSynth{}
	store := &fakeStore{}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, synth, store, nil)

	result := p.Run(context.Background())
	require.True(t, result.Success)
	require.Equal(t, 1, result.Count)
}

type failFirstSynth struct{ calls int }

func (f *failFirstSynth) SynthesizeBatch(_ context.Context, batch []models.Item) (*models.Synthesis, error) {
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("unparsable completion")
	}
	return &models.Synthesis{Title: "T", Summary: "S", Category: models.CategoryOther}, nil
}

func TestSearch_MatchesAcrossAllSources(t *testing.T) {
	cfg := testConfig(0, 18)
	// Валидный материал только у трёх источников; два содержат запрос
	bodies := map[string]string{
		"Q0": `<rss><channel><item><title>Ukraine peace talks</title><description>Negotiations resume</description><link>http://example.com/u1</link></item></channel></rss>`,
		"Q5": `<rss><channel><item><title>Markets rally</title><description>Tech stocks climb</description></item></channel></rss>`,
		"Q9": `<rss><channel><item><title>Aid convoy</title><description>Supplies reach Ukraine border</description><link>http://example.com/u2</link></item></channel></rss>`,
	}

	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, &fakeSynth{}, &fakeStore{}, nil)
	result := p.Search(context.Background(), "Ukraine", false)

	require.Len(t, result.Results, 2)
	require.Equal(t, "Ukraine peace talks", result.Results[0].Title)
	require.Equal(t, "Aid convoy", result.Results[1].Title)
	require.Equal(t, 18, result.SourcesSearched)
	require.Nil(t, result.Synthesized)
}

func TestSearch_SynthesizesTopMatches(t *testing.T) {
	cfg := testConfig(0, 3)
	bodies := map[string]string{
		"Q0": makeRSS("ukraine", 8),
	}

	synth := &fakeSynth{}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, synth, &fakeStore{}, nil)
	result := p.Search(context.Background(), "ukraine", true)

	require.NotNil(t, result.Synthesized)
	require.Len(t, synth.batches, 1)
	// В синтез уходят не более пяти верхних совпадений
	require.Len(t, synth.batches[0], 5)
}

func TestSearch_SynthesisFailureYieldsNil(t *testing.T) {
	cfg := testConfig(0, 1)
	bodies := map[string]string{"Q0": makeRSS("ukraine", 2)}

	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, &fakeSynth{err: errors.New("api down")}, &fakeStore{}, nil)
	result := p.Search(context.Background(), "ukraine", true)

	require.Len(t, result.Results, 2)
	require.Nil(t, result.Synthesized)
}

func TestSearch_ResultCap(t *testing.T) {
	cfg := testConfig(0, 2)
	bodies := map[string]string{
		"Q0": makeRSS("ukraine", 15),
		"Q1": makeRSS("ukraine", 15),
	}

	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, &fakeSynth{}, &fakeStore{}, nil)
	result := p.Search(context.Background(), "ukraine", false)
	require.Len(t, result.Results, 20)
}

func TestSearch_RepeatedCallsStable(t *testing.T) {
	cfg := testConfig(0, 2)
	bodies := map[string]string{"Q0": makeRSS("ukraine", 4)}
	p := pipeline.New(cfg, &fakeFetcher{bodies: bodies}, &fakeSynth{}, &fakeStore{}, nil)

	first := p.Search(context.Background(), "ukraine", false)
	second := p.Search(context.Background(), "ukraine", false)
	require.Equal(t, first.Results, second.Results)
}
