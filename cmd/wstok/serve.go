package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"wstok/internal/config"
	"wstok/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve tokenization over HTTP",
		Long: `Serve exposes POST /v1/tokenize (JSON) and POST /v1/tokenize/raw (plain body),
plus /healthz, /readyz and Prometheus /metrics.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	f := cmd.Flags()
	f.String("addr", ":8080", "address to listen on")
	f.Float64("rate-limit", 0, "requests per second across all clients (0=unlimited)")
	f.Int("burst", 20, "rate limiter burst size")
	f.Int64("max-body-bytes", server.DefaultMaxBodyBytes, "maximum request body size")
	f.String("redis-addr", "", "redis address for the shared result cache (empty=in-memory)")
	f.Int("cache-size", 1024, "in-memory result cache entries (0 disables caching)")
	f.String("cache-ttl", "", "result cache entry lifetime, e.g. 10m (empty=no expiry)")

	// -v, -logtostderr и остальные флаги klog
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	f.AddGoFlagSet(klogFlags)
	return cmd
}

type serveSettings struct {
	server    server.Config
	redisAddr string
	cacheSize int
}

// readServeSettings merges flags with the [serve] section of cfg.
func readServeSettings(cmd *cobra.Command, cfg *config.Config) (serveSettings, error) {
	var s serveSettings
	flags := cmd.Flags()
	sc := cfg.Serve
	const section = "serve"
	var err error

	if s.server.Addr, err = setting(cmd, flags.GetString, "addr", cfg, section, "addr", sc.Addr); err != nil {
		return s, err
	}
	if s.server.RateLimit, err = setting(cmd, flags.GetFloat64, "rate-limit", cfg, section, "rate_limit", sc.RateLimit); err != nil {
		return s, err
	}
	if s.server.Burst, err = setting(cmd, flags.GetInt, "burst", cfg, section, "burst", sc.Burst); err != nil {
		return s, err
	}
	if s.server.MaxBodyBytes, err = setting(cmd, flags.GetInt64, "max-body-bytes", cfg, section, "max_body_bytes", sc.MaxBodyBytes); err != nil {
		return s, err
	}
	if s.redisAddr, err = setting(cmd, flags.GetString, "redis-addr", cfg, section, "redis_addr", sc.RedisAddr); err != nil {
		return s, err
	}
	if s.cacheSize, err = setting(cmd, flags.GetInt, "cache-size", cfg, section, "cache_size", sc.CacheSize); err != nil {
		return s, err
	}
	ttlStr, err := setting(cmd, flags.GetString, "cache-ttl", cfg, section, "cache_ttl", sc.CacheTTL)
	if err != nil {
		return s, err
	}
	ttl, err := config.ServeConfig{CacheTTL: ttlStr}.TTL()
	if err != nil {
		return s, err
	}

	if s.server.RateLimit < 0 || s.server.Burst < 0 || s.server.MaxBodyBytes < 0 || s.cacheSize < 0 {
		return s, fmt.Errorf("serve limits must not be negative")
	}

	switch {
	case s.redisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: s.redisAddr})
		s.server.Cache = server.NewRedisCache(client, ttl)
	case s.cacheSize > 0:
		s.server.Cache = server.NewMemoryCache(s.cacheSize, ttl)
	}
	return s, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	defer klog.Flush()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := readServeSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if rc, ok := s.server.Cache.(*server.RedisCache); ok {
		defer func() {
			if err := rc.Close(); err != nil {
				klog.Warningf("Error closing Redis client: %v", err)
			}
		}()
		klog.InfoS("using redis result cache", "addr", s.redisAddr)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(s.server).ListenAndServe(ctx)
}
