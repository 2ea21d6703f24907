// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bugtrack/internal/api"
	pgstore "github.com/taibuivan/bugtrack/internal/platform/postgres"
	redisstore "github.com/taibuivan/bugtrack/internal/platform/redis"
)

// healthDependencies binds the readiness probe to the live clients. The cache
// check is skipped when Redis is disabled.
func healthDependencies(pool *pgxpool.Pool, rdb *redis.Client) api.HealthDependencies {
	dependencies := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		dependencies.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	return dependencies
}
