package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/sources"
)

// Config хранит настройку HTTP-сервера, списков источников и параметров конвейера.
// Секреты (ключ API, строка подключения к БД) берутся из окружения, не из файла.
type Config struct {
	ListenAddr          string `json:"listen_addr"`
	PollIntervalMinutes int    `json:"poll_interval_minutes"`

	IngestSources []models.Source `json:"ingest_sources"`
	SearchSources []models.Source `json:"search_sources"`

	IngestItemLimit        int `json:"ingest_item_limit"`
	BatchSize              int `json:"batch_size"`
	PerSourceLimit         int `json:"per_source_limit"`
	IngestDescriptionLimit int `json:"ingest_description_limit"`
	SearchDescriptionLimit int `json:"search_description_limit"`
	SearchResultLimit      int `json:"search_result_limit"`
	SearchBatchLimit       int `json:"search_batch_limit"`
	SynthesisConcurrency   int `json:"synthesis_concurrency"`

	AIModel   string `json:"ai_model"`
	AIBaseURL string `json:"ai_base_url"`

	RabbitMQ RabbitMQ `json:"rabbitmq"`
}

// RabbitMQ хранит адрес брокера и имя очереди для публикации синтезированных новостей.
// Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL   string `json:"url"`
	Queue string `json:"queue"`
}

// Validate проверяет интервал опроса, корректность URL источников и границы параметров.
func (cfg *Config) Validate() error {
	if cfg.PollIntervalMinutes != 0 && cfg.PollIntervalMinutes < 5 {
		return errors.New("poll interval must be 0 or ≥ 5 minutes")
	}
	for _, s := range append(append([]models.Source{}, cfg.IngestSources...), cfg.SearchSources...) {
		if _, err := url.ParseRequestURI(s.URL); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", s.URL)
		}
	}
	if cfg.IngestItemLimit < 1 || cfg.BatchSize < 1 || cfg.PerSourceLimit < 1 {
		return errors.New("pipeline limits must be ≥ 1")
	}
	if cfg.IngestDescriptionLimit < 1 || cfg.SearchDescriptionLimit < 1 {
		return errors.New("description limits must be ≥ 1")
	}
	if cfg.SearchResultLimit < 1 || cfg.SearchBatchLimit < 1 {
		return errors.New("search limits must be ≥ 1")
	}
	if cfg.SynthesisConcurrency < 1 {
		return errors.New("synthesis concurrency must be ≥ 1")
	}
	return nil
}

// Default возвращает конфигурацию со встроенными списками источников
// и рабочими значениями параметров конвейера.
func Default() *Config {
	return &Config{
		ListenAddr:             ":8080",
		PollIntervalMinutes:    0,
		IngestSources:          sources.Ingest,
		SearchSources:          sources.Search,
		IngestItemLimit:        15,
		BatchSize:              3,
		PerSourceLimit:         5,
		IngestDescriptionLimit: 500,
		SearchDescriptionLimit: 300,
		SearchResultLimit:      20,
		SearchBatchLimit:       5,
		SynthesisConcurrency:   1,
		AIModel:                "gpt-4o-mini",
		RabbitMQ:               RabbitMQ{Queue: "news.synthesized"},
	}
}

// LoadConfig читает JSON-файл по пути path поверх значений по умолчанию.
// Пустые списки источников заменяются встроенными.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	if len(cfg.IngestSources) == 0 {
		cfg.IngestSources = sources.Ingest
	}
	if len(cfg.SearchSources) == 0 {
		cfg.SearchSources = sources.Search
	}
	return cfg, nil
}
