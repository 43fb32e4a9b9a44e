package search

import (
	"strings"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
)

// MinQueryLen — минимальная длина поискового запроса.
const MinQueryLen = 2

// Match оставляет публикации, в заголовке или описании которых запрос
// встречается как подстрока без учёта регистра. Порядок публикаций сохраняется.
// Полный перебор без ранжирования: объём источников мал.
func Match(items []models.Item, query string) []models.Item {
	q := strings.ToLower(query)

	var matched []models.Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), q) ||
			strings.Contains(strings.ToLower(item.Description), q) {
			matched = append(matched, item)
		}
	}
	return matched
}
