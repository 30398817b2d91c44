package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"trust_feed/internal/domain/profile/model"
	"trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/pkg/config"
	"trust_feed/pkg/database"
	"trust_feed/pkg/logger"
	"trust_feed/pkg/trust"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// trustctl 运维工具：查询和手动调整信任分
func main() {
	app := &cli.App{
		Name:  "trustctl",
		Usage: "inspect and adjust trust scores",
		Commands: []*cli.Command{
			{
				Name:      "score",
				Usage:     "print a user's trust score and citizen tier",
				ArgsUsage: "<user-id>",
				Action:    score,
			},
			{
				Name:      "adjust",
				Usage:     "apply a bounded delta to a user's trust score",
				ArgsUsage: "<user-id> <delta>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Usage: "recorded in the operator log", Required: true},
				},
				Action: adjust,
			},
			{
				Name:      "tier",
				Usage:     "print the citizen tier of a score without touching the database",
				ArgsUsage: "<score>",
				Action:    tier,
			},
			{
				Name:  "ranking",
				Usage: "print the leaderboard",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "metric", Value: string(model.MetricTrustScore)},
					&cli.IntFlag{Name: "limit", Value: 10},
				},
				Action: ranking,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openRepo() (repository.ProfileRepository, error) {
	config.LoadConfig()
	cfg := config.GlobalConfig
	if err := logger.Init(cfg.App.Env, false); err != nil {
		return nil, err
	}
	db, err := database.InitDatabase(cfg.Database, false)
	if err != nil {
		return nil, err
	}
	return repository.NewProfileRepository(db), nil
}

func score(cctx *cli.Context) error {
	id := cctx.Args().First()
	if id == "" {
		return cli.Exit("user id is required", 2)
	}
	repo, err := openRepo()
	if err != nil {
		return err
	}
	s, err := repo.Score(cctx.Context, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\tscore=%d\ttier=%d\n", id, s, trust.MustCitizenTier(s))
	return nil
}

func adjust(cctx *cli.Context) error {
	if cctx.NArg() != 2 {
		return cli.Exit("usage: trustctl adjust <user-id> <delta>", 2)
	}
	id := cctx.Args().Get(0)
	delta, err := strconv.Atoi(cctx.Args().Get(1))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid delta %q", cctx.Args().Get(1)), 2)
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}
	s, err := repo.ApplyDelta(cctx.Context, id, delta)
	if err != nil {
		return err
	}
	logger.Log.Info("trust adjusted by operator",
		zap.String("user_id", id),
		zap.Int("delta", delta),
		zap.Int("score", s),
		zap.String("reason", cctx.String("reason")),
	)
	fmt.Printf("%s\tscore=%d\ttier=%d\n", id, s, trust.MustCitizenTier(s))
	return nil
}

func tier(cctx *cli.Context) error {
	s, err := strconv.Atoi(cctx.Args().First())
	if err != nil {
		return cli.Exit("score must be an integer", 2)
	}
	t, err := trust.CitizenTier(s)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Println(t)
	return nil
}

func ranking(cctx *cli.Context) error {
	metric := model.RankingMetric(cctx.String("metric"))
	if !metric.Valid() {
		return cli.Exit(fmt.Sprintf("unknown metric %q", metric), 2)
	}
	repo, err := openRepo()
	if err != nil {
		return err
	}
	rows, err := repo.Ranking(cctx.Context, metric, cctx.Int("limit"))
	if err != nil {
		return err
	}
	for i, r := range rows {
		fmt.Printf("%2d. %-32s trust=%3d tier=%d posts=%d likes=%d avg=%.2f\n",
			i+1, r.Nickname, r.TrustScore, trust.MustCitizenTier(r.TrustScore), r.NumPosts, r.TotalLikes, r.AvgLikes)
	}
	return nil
}
