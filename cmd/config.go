package cmd

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMigrateUsers bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka is optional; without brokers events are only logged.
	KafkaBrokers []string
	KafkaTopic   string

	// Sheets is optional; without a spreadsheet id the mirror is kept in memory.
	SheetsSpreadsheetID   string
	SheetsCredentialsFile string
	SheetsPendingTab      string
	SheetsCompletedTab    string
	MirrorQueueSize       int

	MirrorHeartbeatSpec    string
	MirrorHeartbeatTimeout time.Duration
	DispatchSpec           string
	DispatchBatch          int

	DeliveryCharge     decimal.Decimal
	UrgentFee          decimal.Decimal
	DepositPerCylinder decimal.Decimal

	// PaymentGatewayURL is optional; without it only cash orders are accepted.
	PaymentGatewayURL string
}
