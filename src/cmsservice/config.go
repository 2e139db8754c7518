package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"time"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/spf13/viper"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
	"github.com/Sudharsan1-5/SudharsanBuilds/src/cmsservice/internal"
)

func loadConfig() (*viper.Viper, error) {
	return platform.NewViper(map[string]any{
		"cms.server.port":   "8080",
		"cms.allow.origin":  "*",
		"cms.db.port":       "5432",
		"cms.db.name":       "cms",
		"cms.db.sslmode":    "disable",
		"cms.cache.ttl":     "5m",
		"cms.admin.user":    "admin",
		"cms.token.ttl":     "12h",
		"cms.amqp.exchange": "cms_exchange",
	})
}

// openDB connects through the Cloud SQL connector when an instance
// connection name is configured and over plain TCP otherwise.
func openDB(ctx context.Context, v *viper.Viper) (*sql.DB, error) {
	password, err := platform.ResolveSecret(ctx, v.GetString("cms.db.pass"))
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if instance := v.GetString("instance.connection.name"); instance != "" {
		db, err = connectWithConnector(ctx, v, instance, password)
	} else {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			v.GetString("cms.db.host"),
			v.GetString("cms.db.port"),
			v.GetString("cms.db.user"),
			password,
			v.GetString("cms.db.name"),
			v.GetString("cms.db.sslmode"),
		)
		db, err = sql.Open("postgres", dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to ping database: %w", err)
	}
	return db, nil
}

func connectWithConnector(ctx context.Context, v *viper.Viper, instance, password string) (*sql.DB, error) {
	dsn := fmt.Sprintf("user=%s password=%s database=%s", v.GetString("cms.db.user"), password, v.GetString("cms.db.name"))
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	var opts []cloudsqlconn.Option
	if v.GetBool("private.ip") {
		opts = append(opts, cloudsqlconn.WithDefaultDialOptions(cloudsqlconn.WithPrivateIP()))
	}
	opts = append(opts, cloudsqlconn.WithLazyRefresh())

	d, err := cloudsqlconn.NewDialer(ctx, opts...)
	if err != nil {
		return nil, err
	}
	config.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(ctx, instance)
	}

	return sql.Open("pgx", stdlib.RegisterConnConfig(config))
}

func newAuthenticator(ctx context.Context, v *viper.Viper) (*internal.Authenticator, error) {
	key, err := platform.MustString(v, "cms.jwt.signing.key")
	if err != nil {
		return nil, err
	}
	key, err = platform.ResolveSecret(ctx, key)
	if err != nil {
		return nil, err
	}

	hash, err := platform.MustString(v, "cms.admin.password.hash")
	if err != nil {
		return nil, err
	}

	return internal.NewAuthenticator(key, v.GetString("cms.admin.user"), hash, v.GetDuration("cms.token.ttl")), nil
}

// The cache is optional.
func newCache(v *viper.Viper) (*internal.Cache, error) {
	addr := v.GetString("cms.redis.addr")
	if addr == "" {
		slog.Warn("CMS_REDIS_ADDR not set, public reads are not cached")
		return nil, nil
	}

	rdb, err := platform.NewRedisClient(addr, v.GetString("cms.redis.password"))
	if err != nil {
		return nil, err
	}
	return internal.NewCache(rdb, v.GetDuration("cms.cache.ttl")), nil
}

func newPublisher(v *viper.Viper) (platform.Publisher, error) {
	host := v.GetString("cms.amqp.host")
	if host == "" {
		slog.Warn("CMS_AMQP_HOST not set, content events are not published")
		return platform.NopPublisher{}, nil
	}

	uri := fmt.Sprintf("amqp://%s:%s@%s",
		v.GetString("cms.amqp.user"),
		v.GetString("cms.amqp.pass"),
		host,
	)
	conn, err := platform.DialAMQP(uri)
	if err != nil {
		return nil, err
	}
	return platform.NewRabbitMQ(conn, v.GetString("cms.amqp.exchange")), nil
}
