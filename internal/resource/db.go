package resource

import (
	"sync"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	mainDB  *gorm.DB
	readDB  *gorm.DB
	rdb     *redis.Client
	dbOnce  sync.Once
	rdbOnce sync.Once
)

// SetDB sets the global main and read-replica DB instances for this service.
// It should be called once during startup in app.Run. read may equal main
// when no replica is configured.
func SetDB(main, read *gorm.DB) {
	if main == nil {
		panic("SetDB called with nil main db")
	}
	dbOnce.Do(func() {
		mainDB = main
		if read != nil {
			readDB = read
		} else {
			readDB = main
		}
	})
}

// MainDB returns the primary DB instance. All writes go through it.
// It panics if not initialised.
func MainDB() *gorm.DB {
	if mainDB == nil {
		panic("MainDB not initialized; call resource.SetDB in app.Run first")
	}
	return mainDB
}

// ReadDB returns the read-replica DB instance, falling back to the primary
// when no replica is configured. It panics if not initialised.
func ReadDB() *gorm.DB {
	if readDB == nil {
		panic("ReadDB not initialized; call resource.SetDB in app.Run first")
	}
	return readDB
}

// SetRedis sets the global redis client. A nil client is allowed: callers
// that depend on redis degrade to their uncached paths.
func SetRedis(client *redis.Client) {
	rdbOnce.Do(func() {
		rdb = client
	})
}

// Redis returns the global redis client, or nil when the service runs
// without a cache.
func Redis() *redis.Client {
	return rdb
}
