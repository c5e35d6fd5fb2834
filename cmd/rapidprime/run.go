package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/RapidPrime/ReferenceClient/internal/adapter/cpuinfo"
	"github.com/RapidPrime/ReferenceClient/internal/adapter/crypto"
	"github.com/RapidPrime/ReferenceClient/internal/adapter/logging"
	"github.com/RapidPrime/ReferenceClient/internal/adapter/prime"
	"github.com/RapidPrime/ReferenceClient/internal/adapter/redis/statsport"
	"github.com/RapidPrime/ReferenceClient/internal/config"
	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/miner"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/stats"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/status"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/tuning"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/workmanager"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
	http2 "github.com/RapidPrime/ReferenceClient/internal/http"
	"github.com/RapidPrime/ReferenceClient/internal/statsengine"
	"github.com/RapidPrime/ReferenceClient/internal/tcp"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/connectionmanager"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/defs"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/publishers"
)

const shutdownTimeout = 5 * time.Second

func run(ctx context.Context, cfg *config.AppConfig, warnings []string, out io.Writer) error {
	logger, err := logging.NewZapLogger(cfg.LogConfig.Level, cfg.LogConfig.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	for _, w := range warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mc := cfg.MinerConfig
	if mc.Label != "" {
		fmt.Fprintf(out, "Sending host label: %s\n", mc.Label)
	}

	// compute side
	arith := prime.NewArithmetic()
	shared := stats.NewShared(cfg.StatsEngineCfg.StatsInterval, time.Now())
	deps := miner.Deps{
		Config: miner.Config{
			MiningProtocol:    mc.MiningProtocol,
			FixedPrimorial:    mc.FixedPrimorial,
			SieveTargetLength: mc.SieveTargetLength,
			RoundSamples:      tuning.DefaultRoundSamples,
		},
		Searcher: prime.NewSearcher(),
		Arith:    arith,
		Stats:    shared,
		Logger:   logger,
		Out:      out,
	}

	// SECONDARY PORTS
	connMgr := connectionmanager.NewConnectionManager(logger)
	publisher := publishers.NewSubmissionPublisher(connMgr, logger)
	workManager := workmanager.NewWorkManager(miner.NewRunnerFactory(deps), publisher, logger)
	defer workManager.Stop()

	cpu := cpuinfo.Detect()
	hello := domain.HelloPayload{
		Version:         defs.ClientVersion,
		Build:           defs.ClientBuild,
		ProtocolVersion: defs.ProtocolVersion,
		Threads:         uint8(mc.Threads),
		Vendor:          cpu.Vendor,
		ProcInfo:        cpu.ProcInfo,
	}
	if err := hello.SetAddress(mc.PaymentAddress); err != nil {
		return err
	}
	logger.Info("Detected processor", "brand", cpu.Brand, "threads", cpu.Threads)

	pc := cfg.PoolConfig
	client := tcp.NewTCPClient(hello, workManager, connMgr, logger,
		tcp.WithServers(pc.Servers...),
		tcp.WithPort(pc.Port),
		tcp.WithDialTimeout(pc.DialTimeout),
		tcp.WithLabel(mc.Label),
		tcp.WithBackoff(tcp.NewBackoff(pc.BackoffIncrement, pc.BackoffMax)),
		tcp.WithOutput(out),
	)

	// status and telemetry
	statusSvc := status.NewStatusService(mc.PaymentAddress, mc.Label, client, workManager, shared)

	var statusRepo secondary.StatusRepository
	if rc := cfg.RedisConfig; rc.Url != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     rc.Url,
			Password: rc.Password,
			DB:       rc.DB,
		})
		defer redisClient.Close()
		statusRepo = statsport.NewStatusRepository(redisClient, rc.HeartbeatTTL, logger)
	}
	engine := statsengine.NewStatsEngine(cfg.StatsEngineCfg, shared, statusSvc, statusRepo, 2*cfg.RedisConfig.HeartbeatTTL, logger, out)
	engineCtx, cancelEngine := context.WithCancel(ctx)
	engine.StartStatsEngine(engineCtx)
	defer engine.Wait()
	defer cancelEngine()

	if sc := cfg.StatusConfig; sc.Address != "" {
		var verifier primary.TokenVerifier
		if sc.JwtConfig.Secret != "" {
			verifier = crypto.NewJWTService(sc.JwtConfig)
		}
		httpServer := http2.NewServer(sc.Address, "rapidprime", *http2.NewServiceProvider(statusSvc, verifier), logger)
		if err := httpServer.Init(); err != nil {
			return err
		}
		if err := httpServer.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Stop(stopCtx); err != nil {
				logger.Error("Status API forced to shutdown", "error", err)
			}
		}()
	}

	logger.Info("Starting miner",
		"threads", mc.Threads,
		"servers", pc.Servers,
		"port", pc.Port,
		"miningProtocol", mc.MiningProtocol,
		"fixedPrimorial", mc.FixedPrimorial)

	if err := client.Run(ctx); err != nil {
		return err
	}
	logger.Info("Shutting down...")
	return nil
}
