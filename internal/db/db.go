package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
)

// Database инкапсулирует пул соединений к PostgreSQL.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB создаёт новый пул соединений по connString и возвращает Database.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %v", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

// InsertNews сохраняет все синтезированные новости одной массовой вставкой (COPY),
// проставляя каждой publishedAt как время публикации. Операция атомарна:
// при ошибке не сохраняется ничего. Возвращает число вставленных строк.
func (db *Database) InsertNews(ctx context.Context, syntheses []models.Synthesis, publishedAt time.Time) (int, error) {
	rows := make([][]interface{}, 0, len(syntheses))
	for _, s := range syntheses {
		rows = append(rows, []interface{}{s.Title, s.Summary, s.Category, s.Location, s.SourceURLs, publishedAt})
	}

	count, err := db.Pool.CopyFrom(ctx,
		pgx.Identifier{"ai_news"},
		[]string{"title", "summary", "category", "location", "source_urls", "published_at"},
		pgx.CopyFromRows(rows),
	)
	return int(count), err
}

// ListNews возвращает последние limit синтезированных новостей, сортированных по дате публикации.
func (db *Database) ListNews(ctx context.Context, limit int) ([]models.News, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, title, summary, category, location, source_urls, published_at
        FROM ai_news
        ORDER BY published_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var news []models.News
	for rows.Next() {
		var n models.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Summary, &n.Category, &n.Location, &n.SourceURLs, &n.PublishedAt); err != nil {
			return nil, err
		}
		news = append(news, n)
	}
	return news, rows.Err()
}
