package sources

import "github.com/Nexo9/hermes-news-hub-sub001/internal/models"

// Ingest — ленты, из которых конвейер собирает материал для синтеза.
// Короткий список: объём загрузки ограничивает стоимость обращений к модели.
var Ingest = []models.Source{
	{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Country: "gb"},
	{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Country: "qa"},
	{Name: "The Guardian", URL: "https://www.theguardian.com/world/rss", Country: "gb"},
	{Name: "DW News", URL: "https://rss.dw.com/rdf/rss-en-all", Country: "de"},
	{Name: "France 24", URL: "https://www.france24.com/en/rss", Country: "fr"},
}

// Search — полный список лент, опрашиваемых поисковым путём.
var Search = []models.Source{
	{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Country: "gb"},
	{Name: "BBC Top", URL: "https://feeds.bbci.co.uk/news/rss.xml", Country: "gb"},
	{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Country: "qa"},
	{Name: "NPR News", URL: "https://feeds.npr.org/1001/rss.xml", Country: "us"},
	{Name: "CNN World", URL: "http://rss.cnn.com/rss/edition_world.rss", Country: "us"},
	{Name: "NBC News", URL: "http://feeds.nbcnews.com/feeds/topstories", Country: "us"},
	{Name: "CBS News", URL: "https://www.cbsnews.com/latest/rss/main", Country: "us"},
	{Name: "ABC News", URL: "https://feeds.abcnews.com/abcnews/topstories", Country: "us"},
	{Name: "NY Times World", URL: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml", Country: "us"},
	{Name: "Washington Post", URL: "http://feeds.washingtonpost.com/rss/world", Country: "us"},
	{Name: "The Guardian", URL: "https://www.theguardian.com/world/rss", Country: "gb"},
	{Name: "The Telegraph", URL: "https://www.telegraph.co.uk/rss.xml", Country: "gb"},
	{Name: "Der Spiegel", URL: "https://www.spiegel.de/international/index.rss", Country: "de"},
	{Name: "DW News", URL: "https://rss.dw.com/rdf/rss-en-all", Country: "de"},
	{Name: "France 24", URL: "https://www.france24.com/en/rss", Country: "fr"},
	{Name: "Japan Times", URL: "https://www.japantimes.co.jp/feed/", Country: "jp"},
	{Name: "South China Morning Post", URL: "https://www.scmp.com/rss/91/feed", Country: "hk"},
	{Name: "Times of India", URL: "https://timesofindia.indiatimes.com/rssfeedstopstories.cms", Country: "in"},
}
