package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"gridflag.ai/agent"
	"gridflag.ai/archive"
	"gridflag.ai/config"
	"gridflag.ai/ipc"
	"gridflag.ai/tactics"
)

const banner = `
 ██████╗ ██████╗ ██╗██████╗ ███████╗██╗      █████╗  ██████╗
██╔════╝ ██╔══██╗██║██╔══██╗██╔════╝██║     ██╔══██╗██╔════╝
██║  ███╗██████╔╝██║██║  ██║█████╗  ██║     ███████║██║  ███╗
██║   ██║██╔══██╗██║██║  ██║██╔══╝  ██║     ██╔══██║██║   ██║
╚██████╔╝██║  ██║██║██████╔╝██║     ███████╗██║  ██║╚██████╔╝
 ╚═════╝ ╚═╝  ╚═╝╚═╝╚═════╝ ╚═╝     ╚══════╝╚═╝  ╚═╝ ╚═════╝

Grid Capture-the-Flag Intelligence`

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	// The game server connects from localhost tooling, not browsers.
	CheckOrigin: func(*http.Request) bool { return true },
}

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting gridflag", "listen", cfg.Listen)

	validator, err := ipc.NewValidator()
	if err != nil {
		slog.Error("failed to compile schemas", "error", err)
		os.Exit(1)
	}

	selector, err := tactics.NewSelector(postureRules(cfg))
	if err != nil {
		slog.Error("failed to compile posture rules", "error", err)
		os.Exit(1)
	}
	allocator := tactics.NewAllocator(selector)

	var opts []agent.Option
	if cfg.ReplayDir != "" {
		opts = append(opts, agent.WithReplayDir(cfg.ReplayDir))
	}
	var results *archive.Store
	if cfg.ResultsDB != "" {
		results, err = archive.Open(cfg.ResultsDB)
		if err != nil {
			slog.Error("failed to open results db", "path", cfg.ResultsDB, "error", err)
			os.Exit(1)
		}
		defer results.Close()
		opts = append(opts, agent.WithResults(results))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		slog.Info("game server connected", "remote", r.RemoteAddr)

		c := ipc.NewConnection(ws, nil)
		a := agent.New(c, validator, allocator, opts...)
		c.RegisterHandler(ipc.TypeStart, a.HandleStart)
		c.RegisterHandler(ipc.TypeTick, a.HandleTick)
		c.RegisterHandler(ipc.TypeGameOver, a.HandleGameOver)
		go c.ReadLoop()
	})

	server := &http.Server{Addr: cfg.Listen, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// postureRules converts any configured rule overrides to compiled-form
// inputs; an empty override list means the built-in doctrine.
func postureRules(cfg config.Config) []*tactics.PostureRule {
	if len(cfg.Posture) == 0 {
		return tactics.DefaultRules()
	}
	rules := make([]*tactics.PostureRule, len(cfg.Posture))
	for i, r := range cfg.Posture {
		rules[i] = &tactics.PostureRule{
			Name:         r.Name,
			Priority:     r.Priority,
			ConditionSrc: r.Condition,
			Posture: tactics.Posture{
				Name:            r.Name,
				MaxDefenders:    r.Defenders,
				SafeAttack:      r.SafeAttack,
				SafetyMargin:    r.SafetyMargin,
				RescueThreshold: r.RescueThreshold,
			},
		}
	}
	return rules
}
