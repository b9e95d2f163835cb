package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/challenge/config"
	"github.com/questx-lab/challenge/internal/domain"
	"github.com/questx-lab/challenge/internal/domain/budget"
	"github.com/questx-lab/challenge/internal/domain/eventlog"
	"github.com/questx-lab/challenge/internal/domain/rewardissuer"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/internal/rewardprovider"
	"github.com/questx-lab/challenge/pkg/api"
	"github.com/questx-lab/challenge/pkg/kafka"
	"github.com/questx-lab/challenge/pkg/logger"
	"github.com/questx-lab/challenge/pkg/pubsub"
	"github.com/questx-lab/challenge/pkg/redis"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	publisher pubsub.Publisher
	locker    rewardissuer.Locker
	providers *rewardprovider.Registry

	userRepo       repository.UserRepository
	workspaceRepo  repository.WorkspaceRepository
	challengeRepo  repository.ChallengeRepository
	assignmentRepo repository.ChallengeAssignmentRepository
	submissionRepo repository.SubmissionRepository
	budgetRepo     repository.PointsBudgetRepository
	issuanceRepo   repository.RewardIssuanceRepository
	eventLogRepo   repository.EventLogRepository

	ledger      *budget.Ledger
	eventLogger *eventlog.Logger
	issuer      *rewardissuer.Issuer

	submissionDomain     domain.SubmissionDomain
	assignmentDomain     domain.ChallengeAssignmentDomain
	budgetDomain         domain.PointsBudgetDomain
	rewardIssuanceDomain domain.RewardIssuanceDomain
	eventLogDomain       domain.EventLogDomain
}

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "challenge"
	s.app.Usage = "Challenge review and reward platform"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to the toml config file",
			EnvVars: []string{"CHALLENGE_CONFIG"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it serves every submission and reward api.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Category:    "Database",
			Description: `Used to create or update the tables of the database.`,
		},
	}
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, *cfg)
	s.loadLogger()
	return nil
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx)
	level := logger.ParseLevel(cfg.Log.Level)

	var l logger.Logger
	if cfg.Env == "production" {
		l = logger.NewProductionLogger(level, "service", "challenge")
	} else {
		l = logger.NewLogger(level)
	}

	s.ctx = xcontext.WithLogger(s.ctx, l)
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Type {
	case "mysql":
		dialector = mysql.Open(cfg.ConnectionString())
	case "postgres":
		dialector = postgres.Open(cfg.ConnectionString())
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		panic(fmt.Sprintf("unsupported database type %q", cfg.Type))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseDBLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func parseDBLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadSnowflake() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlakeNode(s.ctx, node)
}

func (s *srv) loadHTTPClient() {
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{})
}

// loadLocker uses redis when an address is configured, so that several api
// instances share the issuance locks.
func (s *srv) loadLocker() {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Redis.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("No redis configured, issuance locks are local to this instance and unsafe with more than one node")
		s.locker = rewardissuer.NewLocalLocker()
		return
	}

	client, err := redis.NewClient(s.ctx, cfg.Redis.Addr)
	if err != nil {
		panic(err)
	}

	s.locker = rewardissuer.NewRedisLocker(client, cfg.Reward.LockTTL.Duration)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("No kafka configured, events are only stored in database")
		s.publisher = pubsub.NopPublisher{}
		return
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, strings.Split(cfg.Addr, ","))
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadProviders() {
	cfg := xcontext.Configs(s.ctx).Reward

	s.providers = rewardprovider.NewRegistry(cfg.DefaultProvider)
	for name, domains := range cfg.Providers {
		generator := api.NewGenerator(domains...)
		s.providers.Register(name, rewardprovider.NewHTTPProvider(generator, cfg.ProviderTokens[name]))
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.workspaceRepo = repository.NewWorkspaceRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.assignmentRepo = repository.NewChallengeAssignmentRepository()
	s.submissionRepo = repository.NewSubmissionRepository()
	s.budgetRepo = repository.NewPointsBudgetRepository()
	s.issuanceRepo = repository.NewRewardIssuanceRepository()
	s.eventLogRepo = repository.NewEventLogRepository()
}

func (s *srv) loadDomains() {
	s.ledger = budget.NewLedger(s.budgetRepo)
	s.eventLogger = eventlog.NewLogger(s.eventLogRepo, s.publisher)
	s.issuer = rewardissuer.NewIssuer(
		s.issuanceRepo,
		s.workspaceRepo,
		s.submissionRepo,
		s.userRepo,
		s.ledger,
		s.providers,
		s.locker,
		s.eventLogger,
	)

	s.submissionDomain = domain.NewSubmissionDomain(
		s.submissionRepo,
		s.challengeRepo,
		s.workspaceRepo,
		s.assignmentRepo,
		s.issuer,
		s.eventLogger,
	)
	s.assignmentDomain = domain.NewChallengeAssignmentDomain(
		s.assignmentRepo, s.challengeRepo, s.workspaceRepo, s.eventLogger)
	s.budgetDomain = domain.NewPointsBudgetDomain(
		s.budgetRepo, s.challengeRepo, s.workspaceRepo, s.eventLogger)
	s.rewardIssuanceDomain = domain.NewRewardIssuanceDomain(
		s.issuanceRepo, s.challengeRepo, s.workspaceRepo, s.issuer)
	s.eventLogDomain = domain.NewEventLogDomain(s.eventLogRepo, s.workspaceRepo)
}
