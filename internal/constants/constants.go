package constants

import "time"

const (
	// 預設櫃台
	DefaultTerminalID = "counter-1"
	// 無人打卡時訂單歸屬
	FallbackStaffLabel = "Admin"
	// 店舖設定單例主鍵
	StoreConfigID uint = 1

	DefaultStoreName = "Mumbai Brew Co."
	DefaultCurrency  = "₹"
	DefaultTaxRate   = "0.05"

	DefaultOrderTopic     = "cafe-erp.orders"
	DefaultStockCacheTTL  = 10 * time.Minute
	DefaultAdvisorTimeout = 8 * time.Second
)

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

type DBDriver string

const (
	DriverSqlite   DBDriver = "sqlite"
	DriverPostgres DBDriver = "postgres"
)

func IsValidDBDriver(driver string) bool {
	switch DBDriver(driver) {
	case DriverSqlite, DriverPostgres:
		return true
	default:
		return false
	}
}

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)

// kafka header
const (
	HeaderEventName = "event_name"
)
