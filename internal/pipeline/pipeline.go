package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/config"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/extractor"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/fetcher"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/logger"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/metrics"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/search"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/synthesizer"
)

// FeedFetcher загружает сырые документы всех источников.
type FeedFetcher interface {
	FetchAll(ctx context.Context, srcs []models.Source) []fetcher.Document
}

// BatchSynthesizer выполняет синтез одной группы публикаций.
type BatchSynthesizer interface {
	SynthesizeBatch(ctx context.Context, batch []models.Item) (*models.Synthesis, error)
}

// Store сохраняет результаты синтеза одной массовой вставкой.
type Store interface {
	InsertNews(ctx context.Context, syntheses []models.Synthesis, publishedAt time.Time) (int, error)
}

// Publisher отправляет сохранённую новость подписчикам.
type Publisher interface {
	PublishNews(ctx context.Context, news models.News) error
}

// Pipeline связывает стадии конвейера: загрузка → извлечение → синтез → сохранение.
type Pipeline struct {
	cfg       *config.Config
	fetcher   FeedFetcher
	synth     BatchSynthesizer
	store     Store
	publisher Publisher // nil отключает публикацию
}

func New(cfg *config.Config, f FeedFetcher, s BatchSynthesizer, store Store, pub Publisher) *Pipeline {
	return &Pipeline{cfg: cfg, fetcher: f, synth: s, store: store, publisher: pub}
}

// Run выполняет один прогон загрузки: опрашивает все источники, извлекает
// публикации, синтезирует их группами и сохраняет результат одной вставкой.
// Ошибки отдельных источников и групп не прерывают прогон; наружу выходит
// только полное отсутствие материала или отказ хранилища.
func (p *Pipeline) Run(ctx context.Context) models.IngestResult {
	log := logger.WithRun(uuid.NewString())
	log.Infof("Starting ingestion: %d sources", len(p.cfg.IngestSources))

	docs := p.fetcher.FetchAll(ctx, p.cfg.IngestSources)

	var items []models.Item
	for _, doc := range docs {
		if doc.Body == "" {
			metrics.FeedsFailed.Inc()
			continue
		}
		metrics.FeedsFetched.Inc()

		extracted := extractor.Extract(doc.Body, doc.Source, extractor.Options{
			DescriptionLimit: p.cfg.IngestDescriptionLimit,
			MaxItems:         p.cfg.PerSourceLimit,
		})
		items = append(items, extracted...)
	}
	metrics.ItemsExtracted.Add(float64(len(items)))
	log.Infof("Extracted %d items", len(items))

	if len(items) == 0 {
		return models.IngestResult{Success: false, Error: "No items fetched from RSS feeds"}
	}

	if len(items) > p.cfg.IngestItemLimit {
		items = items[:p.cfg.IngestItemLimit]
	}

	batches := synthesizer.Batches(items, p.cfg.BatchSize)
	syntheses := p.synthesizeAll(ctx, log, batches)
	log.Infof("Synthesized %d of %d batches", len(syntheses), len(batches))

	if len(syntheses) == 0 {
		return models.IngestResult{Success: false, Error: "AI synthesis failed"}
	}

	publishedAt := time.Now().UTC()
	count, err := p.store.InsertNews(ctx, syntheses, publishedAt)
	if err != nil {
		log.Errorf("Failed to persist news: %v", err)
		return models.IngestResult{Success: false, Error: err.Error()}
	}
	metrics.NewsPersisted.Add(float64(count))
	log.Infof("Persisted %d news items", count)

	if p.publisher != nil {
		for _, syn := range syntheses {
			news := models.News{Synthesis: syn, PublishedAt: publishedAt}
			if err := p.publisher.PublishNews(ctx, news); err != nil {
				log.Warnf("Failed to publish news event: %v", err)
			}
		}
	}

	return models.IngestResult{
		Success: true,
		Count:   count,
		Message: fmt.Sprintf("Synthesized and stored %d news items", count),
	}
}

// synthesizeAll обходит группы с настроенным пределом параллелизма
// (по умолчанию строго последовательно) и собирает успешные результаты,
// сохраняя порядок групп. Неудачная группа пропускается.
func (p *Pipeline) synthesizeAll(ctx context.Context, log *logger.Entry, batches [][]models.Item) []models.Synthesis {
	results := make([]*models.Synthesis, len(batches))

	if p.cfg.SynthesisConcurrency <= 1 {
		for i, batch := range batches {
			results[i] = p.runBatch(ctx, log, i, batch)
		}
	} else {
		sem := make(chan struct{}, p.cfg.SynthesisConcurrency)
		var wg sync.WaitGroup
		for i, batch := range batches {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, batch []models.Item) {
				defer wg.Done()
				defer func() { <-sem }()
				results[i] = p.runBatch(ctx, log, i, batch)
			}(i, batch)
		}
		wg.Wait()
	}

	var syntheses []models.Synthesis
	for _, r := range results {
		if r != nil {
			syntheses = append(syntheses, *r)
		}
	}
	return syntheses
}

func (p *Pipeline) runBatch(ctx context.Context, log *logger.Entry, i int, batch []models.Item) *models.Synthesis {
	syn, err := p.synth.SynthesizeBatch(ctx, batch)
	if err != nil {
		metrics.BatchesSkipped.Inc()
		log.WithField("batch", i).Warnf("Batch skipped: %v", err)
		return nil
	}
	metrics.BatchesSynthesized.Inc()
	return syn
}

// Search опрашивает все поисковые источники заново, фильтрует публикации по
// подстроке и при необходимости синтезирует общий обзор верхних совпадений.
// Неудачный синтез даёт nil, не ошибку: список совпадений ценен сам по себе.
func (p *Pipeline) Search(ctx context.Context, query string, synthesize bool) models.SearchResult {
	log := logger.Log.WithField("query", query)
	docs := p.fetcher.FetchAll(ctx, p.cfg.SearchSources)

	var items []models.Item
	for _, doc := range docs {
		if doc.Body == "" {
			continue
		}
		items = append(items, extractor.Extract(doc.Body, doc.Source, extractor.Options{
			DescriptionLimit: p.cfg.SearchDescriptionLimit,
		})...)
	}

	matched := search.Match(items, query)
	if len(matched) > p.cfg.SearchResultLimit {
		matched = matched[:p.cfg.SearchResultLimit]
	}
	log.Infof("Matched %d of %d items", len(matched), len(items))

	var syn *models.Synthesis
	if synthesize && len(matched) > 0 {
		top := matched[:min(len(matched), p.cfg.SearchBatchLimit)]
		result, err := p.synth.SynthesizeBatch(ctx, top)
		if err != nil {
			log.Warnf("Search synthesis skipped: %v", err)
		} else {
			syn = result
		}
	}

	metrics.SearchesServed.Inc()
	if matched == nil {
		matched = []models.Item{}
	}
	return models.SearchResult{
		Results:         matched,
		Synthesized:     syn,
		SourcesSearched: len(p.cfg.SearchSources),
	}
}
