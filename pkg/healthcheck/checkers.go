package healthcheck

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
)

// pool use above this fraction reports degraded
const poolSaturation = 0.9

// SQL pings a database/sql pool and reports its connection usage
func SQL(db *sql.DB) Checker {
	return CheckerFunc(func(ctx context.Context) Result {
		if err := db.PingContext(ctx); err != nil {
			return Result{Status: StatusUnhealthy, Message: err.Error()}
		}

		stats := db.Stats()
		res := Result{
			Status: StatusHealthy,
			Details: map[string]interface{}{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"max_open":         stats.MaxOpenConnections,
				"wait_count":       stats.WaitCount,
			},
		}
		if stats.MaxOpenConnections > 0 && float64(stats.InUse)/float64(stats.MaxOpenConnections) > poolSaturation {
			res.Status = StatusDegraded
			res.Message = "connection pool nearly exhausted"
		}
		return res
	})
}

// Redis pings the server behind client
func Redis(client redis.UniversalClient) Checker {
	return CheckerFunc(func(ctx context.Context) Result {
		if err := client.Ping(ctx).Err(); err != nil {
			return Result{Status: StatusUnhealthy, Message: err.Error()}
		}
		stats := client.PoolStats()
		return Result{
			Status: StatusHealthy,
			Details: map[string]interface{}{
				"total_conns": stats.TotalConns,
				"idle_conns":  stats.IdleConns,
				"timeouts":    stats.Timeouts,
			},
		}
	})
}
