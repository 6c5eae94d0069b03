package constants

const ParserExchange = "parser_exchange"

// Ключи маршрутизации
const (
	RoutingKeyListings    = "zillow.listings.save"
	RoutingKeyCrawlResult = "notify.crawl.result"
)
