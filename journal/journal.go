// Package journal stores the raw records the snapshot engine analyzes: one
// row per option trade plus an optional whole-account daily balance log.
// SQLite is the durable store; CSV covers broker-export import and plain
// file interchange.
package journal

import (
	"github.com/rustyeddy/tradestats/snapshot"
)

// Store is the persistence surface the CLI works against.
type Store interface {
	RecordTrade(snapshot.Trade) error
	RecordDailyLog(snapshot.DailyLogEntry) error
	ListTrades() ([]snapshot.Trade, error)
	ListDailyLogs() ([]snapshot.DailyLogEntry, error)
	Close() error
}
