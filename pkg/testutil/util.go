package testutil

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/challenge/config"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/logger"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "test",
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: config.Duration{Duration: time.Minute},
			},
		},
		Kafka: config.KafkaConfigs{
			EventTopic: "challenge.events",
		},
		Reward: config.RewardConfigs{
			DefaultProvider: MockProviderName,
			ProviderTimeout: config.Duration{Duration: time.Second},
			WebhookSecret:   "webhook-secret",
			LockTTL:         config.Duration{Duration: 10 * time.Second},
		},
		Review: config.ReviewConfigs{
			MaxNotesLength: 2000,
		},
	}
}

// MockContext returns a context carrying a fresh in-memory database. The
// database is limited to one connection, every connection of a sqlite
// :memory: database would otherwise see its own empty database.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithHTTPClient(ctx, http.DefaultClient)
	ctx = xcontext.WithSnowFlakeNode(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

// WithConfigs overrides the configs of ctx with the changes applied by fn.
func WithConfigs(ctx context.Context, fn func(*config.Configs)) context.Context {
	cfg := xcontext.Configs(ctx)
	fn(&cfg)
	return xcontext.WithConfigs(ctx, cfg)
}
