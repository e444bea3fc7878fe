package dbmetrics

import (
	"database/sql"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/pkg/metrics"
)

// DefaultPoolStatsInterval период сбора статистики пула соединений
const DefaultPoolStatsInterval = 15 * time.Second

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула до закрытия stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, dbName string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)
	go collectPoolStats(db, m, dbName, DefaultPoolStatsInterval, stopCh)
	return wrapped
}

func collectPoolStats(db *sql.DB, m *metrics.Metrics, dbName string, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		recordPoolStats(db.Stats(), m, dbName)

		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}
	}
}

func recordPoolStats(stats sql.DBStats, m *metrics.Metrics, dbName string) {
	m.DBOpenConnections.WithLabelValues(dbName).Set(float64(stats.OpenConnections))
	m.DBInUse.WithLabelValues(dbName).Set(float64(stats.InUse))
	m.DBIdle.WithLabelValues(dbName).Set(float64(stats.Idle))
}
