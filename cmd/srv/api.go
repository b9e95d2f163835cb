package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/internal/middleware"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/pkg/authenticator"
	"github.com/questx-lab/challenge/pkg/prometheus"
	"github.com/questx-lab/challenge/pkg/router"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadSnowflake()
	s.loadHTTPClient()
	s.loadLocker()
	s.loadPublisher()
	s.loadProviders()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: middleware.AllowCors(cfg.ApiServer, s.loadRouter().Handler()),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)

	var err error
	if cfg.ApiServer.Cert != "" && cfg.ApiServer.Key != "" {
		err = httpSrv.ListenAndServeTLS(cfg.ApiServer.Cert, cfg.ApiServer.Key)
	} else {
		err = httpSrv.ListenAndServe()
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() *router.Router {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	defaultRouter := router.New(s.ctx)
	defaultRouter.Before(middleware.WithStartTime())
	defaultRouter.AddCloser(middleware.Logger())
	defaultRouter.AddCloser(middleware.Prometheus())

	promHandler, err := prometheus.NewHandler(common.RegisterMetrics)
	if err != nil {
		panic(err)
	}
	defaultRouter.Handle(http.MethodGet, "/metrics", promHandler)

	// Provider callbacks are authenticated by the shared webhook secret.
	webhookRouter := defaultRouter.Branch()
	webhookRouter.Before(middleware.VerifyWebhookSecret())
	{
		router.POST(webhookRouter, "/rewards/callback", s.rewardIssuanceDomain.Callback)
	}

	// These following APIs need authentication with an access token.
	authRouter := defaultRouter.Branch()
	authRouter.Before(middleware.Authenticate(authenticator.NewTokenEngine[model.AccessToken](cfg.Auth)))
	{
		// Submission API
		router.POST(authRouter, "/workspaces/:workspace_id/submissions", s.submissionDomain.Submit)
		router.GET(authRouter, "/workspaces/:workspace_id/submissions", s.submissionDomain.GetList)
		router.GET(authRouter, "/workspaces/:workspace_id/submissions/:submission_id", s.submissionDomain.Get)
		router.POST(authRouter, "/workspaces/:workspace_id/submissions/:submission_id/resubmit", s.submissionDomain.Resubmit)
		router.POST(authRouter, "/workspaces/:workspace_id/submissions/:submission_id/review", s.submissionDomain.Review)
		router.POST(authRouter, "/workspaces/:workspace_id/submissions/:submission_id/manager-review", s.submissionDomain.ManagerReview)

		// Challenge assignment API
		router.GET(authRouter, "/workspaces/:workspace_id/challenges/:challenge_id/assignments", s.assignmentDomain.GetList)
		router.POST(authRouter, "/workspaces/:workspace_id/challenges/:challenge_id/assignments", s.assignmentDomain.Assign)
		router.POST(authRouter, "/workspaces/:workspace_id/challenges/:challenge_id/assignments/remove", s.assignmentDomain.Unassign)

		// Budget API
		router.GET(authRouter, "/workspaces/:workspace_id/budget", s.budgetDomain.Get)
		router.POST(authRouter, "/workspaces/:workspace_id/budget", s.budgetDomain.Set)

		// Reward API
		router.GET(authRouter, "/workspaces/:workspace_id/rewards", s.rewardIssuanceDomain.GetList)
		router.GET(authRouter, "/workspaces/:workspace_id/rewards/me", s.rewardIssuanceDomain.GetMine)
		router.POST(authRouter, "/workspaces/:workspace_id/rewards/grant", s.rewardIssuanceDomain.Grant)
		router.POST(authRouter, "/workspaces/:workspace_id/rewards/:issuance_id/retry", s.rewardIssuanceDomain.Retry)
		router.POST(authRouter, "/workspaces/:workspace_id/rewards/:issuance_id/cancel", s.rewardIssuanceDomain.Cancel)

		// Audit log API
		router.GET(authRouter, "/workspaces/:workspace_id/events", s.eventLogDomain.GetList)
	}

	return defaultRouter
}
