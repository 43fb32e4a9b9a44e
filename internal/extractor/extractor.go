package extractor

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
)

// Извлечение полей построено на терпимом поиске по шаблону, а не на строгом
// XML-декодере: реальные ленты регулярно нарушают well-formedness
// (незакрытые сущности, голые амперсанды), и строгий парсер отбрасывал бы их целиком.
var (
	itemRe  = regexp.MustCompile(`(?is)<item\b[^>]*>(.*?)</item>`)
	titleRe = fieldRe("title")
	descRe  = fieldRe("description")
	linkRe  = fieldRe("link")
	dateRe  = fieldRe("pubDate")

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// fieldRe строит шаблон для поля name, допускающий необязательную обёртку CDATA.
func fieldRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<` + name + `[^>]*>\s*(?:<!\[CDATA\[(.*?)\]\]>|(.*?))\s*</` + name + `>`)
}

// Options задаёт пределы извлечения для конкретного пути конвейера.
// MaxItems ≤ 0 отключает ограничение числа публикаций на источник.
type Options struct {
	DescriptionLimit int
	MaxItems         int
}

// Extract находит все фрагменты <item> в сыром тексте ленты и собирает публикации.
// Публикации с пустым заголовком или описанием отбрасываются;
// порядок соответствует порядку фрагментов в документе.
func Extract(body string, src models.Source, opts Options) []models.Item {
	fragments := itemRe.FindAllStringSubmatch(body, -1)

	var items []models.Item
	for _, frag := range fragments {
		if opts.MaxItems > 0 && len(items) >= opts.MaxItems {
			break
		}

		title := CleanText(extractField(frag[1], titleRe))
		description := CleanText(extractField(frag[1], descRe))
		if title == "" || description == "" {
			continue
		}

		items = append(items, models.Item{
			Title:       title,
			Description: Truncate(description, opts.DescriptionLimit),
			Link:        strings.TrimSpace(extractField(frag[1], linkRe)),
			PubDate:     strings.TrimSpace(extractField(frag[1], dateRe)),
			Source:      src.Name,
			Country:     src.Country,
		})
	}
	return items
}

// extractField возвращает содержимое первого вхождения поля:
// либо из CDATA-секции, либо из обычного текста элемента.
func extractField(fragment string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// CleanText убирает остаточную разметку и HTML-сущности и схлопывает пробелы.
// Сущности раскрываются до разбора: описания в лентах обычно несут экранированный HTML.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
		s = doc.Text()
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate обрезает строку до limit рун. limit ≤ 0 оставляет строку как есть.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
