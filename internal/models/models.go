package models

import "time"

// Source описывает один RSS-источник: адрес ленты, отображаемое имя
// и необязательный код страны.
type Source struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Country string `json:"country,omitempty"`
}

// Item представляет одну публикацию, извлечённую из RSS-ленты.
// PubDate хранится как есть, без нормализации формата.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	PubDate     string `json:"pubDate"`
	Source      string `json:"source"`
	Country     string `json:"country,omitempty"`
}

// Допустимые категории синтезированной новости.
const (
	CategoryPolitics    = "politics"
	CategoryEconomy     = "economy"
	CategoryTechnology  = "technology"
	CategorySport       = "sport"
	CategoryCulture     = "culture"
	CategoryScience     = "science"
	CategoryHealth      = "health"
	CategoryEnvironment = "environment"
	CategoryOther       = "other"
)

var categories = map[string]struct{}{
	CategoryPolitics:    {},
	CategoryEconomy:     {},
	CategoryTechnology:  {},
	CategorySport:       {},
	CategoryCulture:     {},
	CategoryScience:     {},
	CategoryHealth:      {},
	CategoryEnvironment: {},
	CategoryOther:       {},
}

// ValidCategory сообщает, входит ли категория в фиксированный перечень.
func ValidCategory(c string) bool {
	_, ok := categories[c]
	return ok
}

// Synthesis представляет результат синтеза одной группы публикаций.
type Synthesis struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Category   string   `json:"category"`
	Location   string   `json:"location"`
	SourceURLs []string `json:"source_urls"`
}

// News — сохранённая в базе синтезированная новость.
type News struct {
	ID          int       `json:"id"`
	Synthesis
	PublishedAt time.Time `json:"published_at"`
}

// IngestResult — итог одного прогона конвейера загрузки.
type IngestResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SearchResult — ответ поискового пути: найденные публикации,
// необязательный общий синтез и число опрошенных источников.
type SearchResult struct {
	Results         []Item     `json:"results"`
	Synthesized     *Synthesis `json:"synthesized"`
	SourcesSearched int        `json:"sourcesSearched"`
}
