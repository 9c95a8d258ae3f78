// Command matchserver bootstraps the Schnapsen Duo match server process:
// it loads configuration, wires the AMQP broker and fleet-controller
// collaborators, and serves the per-match websocket namespaces.
package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"
	"github.com/schnapsen-duo/match-server/pkg/broker"
	"github.com/schnapsen-duo/match-server/pkg/config"
	"github.com/schnapsen-duo/match-server/pkg/fleetreg"
	"github.com/schnapsen-duo/match-server/pkg/match"
	"github.com/schnapsen-duo/match-server/pkg/obs"
	"github.com/schnapsen-duo/match-server/pkg/protocol"
	"github.com/schnapsen-duo/match-server/pkg/rules"
	"github.com/schnapsen-duo/match-server/pkg/transport"
)

const gameName = "schnapsen_duo"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config load failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	backend := obs.NewBackend(os.Stdout, obs.ParseLevel("info"))
	log := backend.Logger("ORCH")

	hub := transport.NewHub(backend.Logger("TRANSPORT"))
	srv := transport.NewServer(cfg.PublicAddr, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var brokerClient *broker.Client
	if cfg.AMQPURL != "" {
		brokerClient, err = broker.Dial(cfg.AMQPURL, backend.Logger("BROKER"))
		if err != nil {
			log.Errorf("amqp dial failed: %v", err)
		}
	}

	var fleet *fleetreg.Client
	if cfg.GameRegisterURL != "" {
		fleet = fleetreg.New(cfg.GameRegisterURL)
		if err := fleet.CreateGame(ctx, protocol.GameServerCreate{
			Region:     cfg.Region,
			Game:       gameName,
			Mode:       "duo",
			ServerPub:  cfg.PublicAddr,
			ServerPriv: cfg.PrivateAddr,
			MinPlayers: match.MinPlayers,
			MaxPlayers: match.MinPlayers,
			RankingConf: protocol.RankingConf{
				MaxStars:    3,
				Description: "Schnapsen Duo bummerl ranking",
				Performances: []protocol.RankingPerformance{
					{Name: "win", Weight: 1},
					{Name: "lose", Weight: 0},
				},
			},
		}); err != nil {
			log.Errorf("create_game registration failed: %v", err)
		}
		go fleet.RunHealthLoop(ctx, cfg.HostAddr)
	}

	matchLog := backend.Logger("MATCH")
	if brokerClient != nil {
		err := brokerClient.ConsumeCreateMatch(ctx, func(req protocol.CreateMatch) {
			onCreateMatch(ctx, req, hub, brokerClient, cfg, matchLog, log)
		})
		if err != nil {
			log.Errorf("amqp consume failed: %v", err)
		}
	}

	go func() {
		log.Infof("listening on %s", cfg.PublicAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()
	_ = transport.Shutdown(shutdownCtx, srv)
	if brokerClient != nil {
		_ = brokerClient.Close()
	}
}

func onCreateMatch(ctx context.Context, req protocol.CreateMatch, hub *transport.Hub, b *broker.Client, cfg *config.Config, matchLog, log slog.Logger) {
	mode := rules.Duo
	if req.Mode == "bummerl" {
		mode = rules.Bummerl
	}

	rng := mrand.New(mrand.NewSource(seedFromCrypto()))
	orch := match.New(req.Players, mode, rng, matchLog)
	hub.Register(orch)

	orch.OnExit(func(outcome match.Outcome) {
		if outcome.Result != nil {
			if err := b.ReportMatchResult(ctx, *outcome.Result); err != nil {
				log.Errorf("report_match_result failed: %v", err)
			}
		}
		if outcome.AbruptClose != nil {
			if err := b.ReportMatchAbruptClose(ctx, *outcome.AbruptClose); err != nil {
				log.Errorf("report_match_abrupt_close failed: %v", err)
			}
		}
	})

	created := protocol.CreatedMatch{
		PlayerWrite: orch.PlayerWriteTokens(),
		Game:        req.Game,
		Mode:        req.Mode,
		Read:        orch.MatchID(),
		URLPub:      cfg.PublicAddr + "/" + orch.MatchID(),
		URLPriv:     cfg.PrivateAddr + "/" + orch.MatchID(),
		Region:      cfg.Region,
		AI:          req.AI,
		AIPlayers:   req.AIPlayers,
	}
	if err := b.ReportMatchCreated(ctx, created); err != nil {
		log.Errorf("report_match_created failed: %v", err)
	}
}

const shutdownGrace = 10 * time.Second

// seedFromCrypto seeds the per-match deterministic RNG from real entropy;
// tests construct matches with their own seeded source instead.
func seedFromCrypto() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
