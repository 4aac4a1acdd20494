package data

import (
	"context"
	"fmt"
	"time"

	"movieranker/internal/biz"
	"movieranker/internal/conf"

	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewMovieRepo,
	NewTMDBClient,
	NewImageBaseURL,
)

// Data encapsulates database and cache connections
type Data struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
	log      *log.Helper
}

// NewData opens the movie store, creating the movies table if it is absent,
// and connects to Redis when an address is configured.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)

	db, err := gorm.Open(dialector(c.Database), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger(logger),
	})
	if err != nil {
		l.Errorf("failed to connect to database: %v", err)
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Errorf("failed to get database instance: %v", err)
		return nil, nil, err
	}

	if c.Database.Driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY between concurrent requests.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&Movie{}); err != nil {
		l.Errorf("failed to migrate database: %v", err)
		_ = sqlDB.Close()
		return nil, nil, err
	}

	l.Infof("database connected successfully (%s)", c.Database.Driver)

	var rdb *redis.Client
	if c.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         c.Redis.Addr,
			Password:     c.Redis.Password,
			DB:           c.Redis.DB,
			ReadTimeout:  c.Redis.ReadTimeout,
			WriteTimeout: c.Redis.WriteTimeout,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			// Redis is optional, continue without it
			l.Warnf("failed to connect to redis: %v", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			l.Info("redis connected successfully")
		}
	}

	data := &Data{
		db:       db,
		rdb:      rdb,
		cacheTTL: c.Redis.CacheTTL,
		log:      l,
	}

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		if err := sqlDB.Close(); err != nil {
			l.Errorf("failed to close database: %v", err)
		}
	}

	return data, cleanup, nil
}

// NewImageBaseURL exposes the poster prefix to the workflow.
func NewImageBaseURL(c *conf.TMDB) biz.ImageBaseURL {
	return biz.ImageBaseURL(c.ImageBaseURL)
}

func dialector(c conf.Database) gorm.Dialector {
	if c.Driver == "postgres" {
		return postgres.Open(c.Source)
	}
	return sqlite.Open(c.Source)
}

// gormLogger routes gorm's warnings and errors through the kratos logger.
func gormLogger(l log.Logger) logger.Interface {
	return logger.New(gormWriter{log.NewHelper(log.With(l, "module", "gorm"))}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct {
	h *log.Helper
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.h.Warn(fmt.Sprintf(format, args...))
}
