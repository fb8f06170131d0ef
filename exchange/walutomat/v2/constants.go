package v2

const (
	APIKeyHeader = "X-API-KEY"
)

const (
	AccountBalancesPath    = "/api/v2.0.0/account/balances"
	DirectFxRatesPath      = "/api/v2.0.0/direct_fx/rates"
	DirectFxExchangesPath  = "/api/v2.0.0/direct_fx/exchanges"
	MarketFxBestOffersPath = "/api/v2.0.0/market_fx/best_offers"
	MarketFxOrdersPath     = "/api/v2.0.0/market_fx/orders"
	MarketFxOrderClosePath = MarketFxOrdersPath + "/close"
)
