package v1

const (
	APIKeyHeader    = "X-API-KEY"
	NonceHeader     = "X-API-NONCE"
	SignatureHeader = "X-API-SIGNATURE"

	AccountIDPath       = "/api/v1/account/id"
	AccountBalancesPath = "/api/v1/account/balances"
	OrderbookPath       = "/api/v1/public/market/orderbook/%s"
	MarketOrdersPath    = "/api/v1/market/orders"
	MarketOrderPath     = MarketOrdersPath + "/%s"
	CloseOrderPath      = MarketOrdersPath + "/close/%s"
)
