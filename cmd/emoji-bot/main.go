package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/emoji-movie-bot-go/internal/adapter/presenter"
	appcfg "github.com/kapu/emoji-movie-bot-go/internal/config"
	"github.com/kapu/emoji-movie-bot-go/internal/dispatch"
	"github.com/kapu/emoji-movie-bot-go/internal/domain"
	"github.com/kapu/emoji-movie-bot-go/internal/game"
	"github.com/kapu/emoji-movie-bot-go/internal/irisfast"
	"github.com/kapu/emoji-movie-bot-go/internal/leaderboard"
	"github.com/kapu/emoji-movie-bot-go/internal/msgcat"
	"github.com/kapu/emoji-movie-bot-go/internal/obslog"
	"github.com/kapu/emoji-movie-bot-go/internal/player"
	"github.com/kapu/emoji-movie-bot-go/internal/puzzle"
	"github.com/kapu/emoji-movie-bot-go/internal/session"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	// Redis: rounds, guess logs, recent-puzzle windows.
	redisURL := cfg.RedisURL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	ropts, err := goredis.ParseURL(redisURL)
	if err != nil {
		logger.Fatal("redis url invalid", zap.Error(err))
	}
	rdb := goredis.NewClient(ropts)
	defer rdb.Close()
	rounds := session.NewStore(rdb, cfg.RecentWindow)

	// Puzzle and player storage: Postgres when configured, in-memory otherwise.
	var puzzles puzzle.Store
	var players player.Repository
	if cfg.DatabaseURL != "" {
		pg, err := puzzle.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("puzzle store init", zap.Error(err))
		}
		defer pg.Close()
		puzzles = pg

		repo, err := player.NewPostgresRepository(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("player repo init", zap.Error(err))
		}
		defer repo.Close()
		players = repo
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		puzzles = puzzle.NewMemoryStore()
		players = player.NewMemoryRepository()
	}

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := puzzle.Seed(seedCtx, puzzles, cfg.PuzzleFile); err != nil {
		cancel()
		logger.Fatal("corpus seed", zap.Error(err))
	}
	cancel()

	mgr := game.NewManager(game.Config{
		RoundTimeout:         cfg.RoundTimeout,
		MaxHints:             cfg.MaxHints,
		BasePoints:           cfg.BasePoints,
		WinThreshold:         cfg.WinThreshold,
		WarmThreshold:        cfg.WarmThreshold,
		SpeedBonusWindow:     cfg.SpeedBonusWindow,
		SpeedBonusMultiplier: cfg.SpeedBonusMultiplier,
		EasyMultiplier:       cfg.EasyMultiplier,
		MediumMultiplier:     cfg.MediumMultiplier,
		HardMultiplier:       cfg.HardMultiplier,
	}, rounds, puzzles, players)
	defer mgr.Close()

	boards := leaderboard.NewService(players)

	cat, err := msgcat.New(os.Getenv("MESSAGE_OVERRIDE_DIR"))
	if err != nil {
		logger.Fatal("message catalog", zap.Error(err))
	}
	fmtr := presenter.NewFormatter(cat)

	// Iris bridge transports.
	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}
	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))
	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", state.String()))
	})
	egress := irisfast.NewEgress(cfg.EgressMode, cfg.EgressDryrun, client, ws)

	reply := func(ctx context.Context, chatID, text string) error {
		return egress.SendText(ctx, chatID, text)
	}

	d := dispatch.NewDispatcher(cfg.BotPrefix, reply,
		dispatch.LogUsage(),
		dispatch.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, fmtr.RateLimited()),
	)
	registerHandlers(d, cfg, mgr, boards, fmtr)

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || strings.TrimSpace(msg.Msg) == "" {
			return
		}
		if len(cfg.AllowedRooms) > 0 && !roomAllowed(cfg.AllowedRooms, msg.Room) {
			return
		}
		// Keep the WS read loop free.
		go d.Dispatch(context.Background(), toDispatchMessage(msg))
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = ws.Connect(cctx)
	cancel()
	if err != nil {
		logger.Fatal("ws connect", zap.Error(err))
	}
	logger.Info("bot_started", zap.String("prefix", cfg.BotPrefix))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = ws.Close(context.Background())
	logger.Info("bot_stopped")
}

func registerHandlers(d *dispatch.Dispatcher, cfg *appcfg.AppConfig, mgr *game.Manager, boards *leaderboard.Service, fmtr *presenter.Formatter) {
	d.Register("gen", func(ctx context.Context, cmd dispatch.Command, reply dispatch.Responder) error {
		category, difficulty := parseFilters(cmd.Args)
		res, err := mgr.StartRound(ctx, cmd.Msg.ChatID, category, difficulty)
		if err != nil {
			return reply(ctx, cmd.Msg.ChatID, fmtr.Error(err))
		}
		return reply(ctx, cmd.Msg.ChatID, fmtr.RoundStart(res))
	})

	d.Register("hint", func(ctx context.Context, cmd dispatch.Command, reply dispatch.Responder) error {
		res, err := mgr.RequestHint(ctx, cmd.Msg.ChatID, cmd.Msg.UserID)
		if err != nil {
			return reply(ctx, cmd.Msg.ChatID, fmtr.Error(err))
		}
		return reply(ctx, cmd.Msg.ChatID, fmtr.Hint(res))
	})

	endgame := func(ctx context.Context, cmd dispatch.Command, reply dispatch.Responder) error {
		res, err := mgr.EndRound(ctx, cmd.Msg.ChatID, domain.EndManual)
		if err != nil {
			return reply(ctx, cmd.Msg.ChatID, fmtr.Error(err))
		}
		return reply(ctx, cmd.Msg.ChatID, fmtr.RoundEnd(res))
	}
	if cfg.OwnerID != "" {
		d.Register("endgame", endgame, dispatch.AdminOnly(cfg.OwnerID, fmtr.AdminOnly()))
	} else {
		d.Register("endgame", endgame)
	}

	d.Register("leaderboard", func(ctx context.Context, cmd dispatch.Command, reply dispatch.Responder) error {
		entries, err := boards.Top(ctx, 10)
		if err != nil {
			return reply(ctx, cmd.Msg.ChatID, fmtr.Error(err))
		}
		return reply(ctx, cmd.Msg.ChatID, fmtr.Leaderboard(entries))
	})

	d.Register("stats", func(ctx context.Context, cmd dispatch.Command, reply dispatch.Responder) error {
		st, err := boards.Stats(ctx, cmd.Msg.UserID)
		if err != nil {
			return reply(ctx, cmd.Msg.ChatID, fmtr.Error(err))
		}
		return reply(ctx, cmd.Msg.ChatID, fmtr.Stats(st))
	})

	d.Register("help", func(ctx context.Context, cmd dispatch.Command, reply dispatch.Responder) error {
		return reply(ctx, cmd.Msg.ChatID, fmtr.Help())
	})

	// Plain chat: every non-command message is a guess at the active round.
	d.Fallback(func(ctx context.Context, cmd dispatch.Command, reply dispatch.Responder) error {
		res, err := mgr.SubmitGuess(ctx, cmd.Msg.ChatID, cmd.Msg.UserID, cmd.Msg.UserName, cmd.Msg.Text)
		if err != nil {
			// Chatter outside a round is not an error worth answering.
			if errors.Is(err, game.ErrNoActiveRound) || errors.Is(err, game.ErrInvalidInput) {
				return nil
			}
			return reply(ctx, cmd.Msg.ChatID, fmtr.Error(err))
		}
		return reply(ctx, cmd.Msg.ChatID, fmtr.Guess(res))
	})
}

func parseFilters(args []string) (domain.Category, domain.Difficulty) {
	var category domain.Category
	var difficulty domain.Difficulty
	for _, arg := range args {
		if c := domain.ParseCategory(arg); c != "" && category == "" {
			category = c
			continue
		}
		if d := domain.ParseDifficulty(arg); d != "" && difficulty == "" {
			difficulty = d
		}
	}
	return category, difficulty
}

func toDispatchMessage(msg *irisfast.Message) dispatch.Message {
	out := dispatch.Message{
		ChatID: msg.Room,
		Text:   msg.Msg,
	}
	if msg.JSON != nil {
		out.UserID = strings.TrimSpace(msg.JSON.UserID)
		out.UserName = strings.TrimSpace(msg.JSON.UserName)
		out.ReceivedAt = msg.JSON.Time
	}
	if out.UserID == "" && msg.Sender != nil {
		out.UserID = strings.TrimSpace(*msg.Sender)
	}
	if out.UserName == "" {
		out.UserName = out.UserID
	}
	return out
}

func roomAllowed(allowed []string, room string) bool {
	for _, r := range allowed {
		if r == room {
			return true
		}
	}
	return false
}
