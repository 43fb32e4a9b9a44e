package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/logger"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
)

const userAgent = "HermesNewsHub/1.0 (+https://github.com/Nexo9/hermes-news-hub-sub001)"

// Fetcher загружает сырой текст RSS-лент по HTTP.
type Fetcher struct {
	client *resty.Client
}

// Document — сырой текст ленты одного источника. Body пуст, если загрузка не удалась.
type Document struct {
	Source models.Source
	Body   string
}

// New создаёт Fetcher с таймаутом transport-уровня и фиксированным User-Agent.
func New(timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	return &Fetcher{client: client}
}

// Fetch выполняет один GET-запрос к источнику и возвращает тело ответа.
// Не-2xx статус считается ошибкой.
func (f *Fetcher) Fetch(ctx context.Context, src models.Source) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(src.URL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), src.URL)
	}
	return string(resp.Body()), nil
}

// FetchAll опрашивает все источники параллельно и дожидается завершения каждого.
// Отказ отдельного источника логируется и даёт пустой документ, не прерывая остальных.
// Порядок документов совпадает с порядком источников.
func (f *Fetcher) FetchAll(ctx context.Context, srcs []models.Source) []Document {
	docs := make([]Document, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src models.Source) {
			defer wg.Done()
			docs[i] = Document{Source: src}

			body, err := f.Fetch(ctx, src)
			if err != nil {
				logger.Log.WithField("url", src.URL).Warnf("Failed to fetch RSS: %v", err)
				return
			}
			docs[i].Body = body
		}(i, src)
	}
	wg.Wait()

	return docs
}
