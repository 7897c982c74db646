package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaR488/Raiblocks.Api/balance"
	"github.com/BaR488/Raiblocks.Api/lib/block"
	"github.com/BaR488/Raiblocks.Api/lib/config"
	"github.com/BaR488/Raiblocks.Api/lib/metrics"
	"github.com/BaR488/Raiblocks.Api/lib/msg"
	"github.com/BaR488/Raiblocks.Api/lib/msg/amqp"
	"github.com/BaR488/Raiblocks.Api/lib/store"
	"github.com/BaR488/Raiblocks.Api/lib/store/db"
	"github.com/BaR488/Raiblocks.Api/lib/util"
	"github.com/BaR488/Raiblocks.Api/wallet"
)

// brokerWait is how long to wait for the broker to be ready before the second and last connection attempt.
const brokerWait = 10 * time.Second

var (
	confPath string
	monitor  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "raiapi",
	Short: "RaiBlocks ledger api",
	Long: `raiapi fronts a RaiBlocks node: it serves balances, transfer assembly, broadcasting and histories over a
RESTful API, and refreshes the balances of observed addresses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&confPath, "config", "c", "", "configuration JSON file (see cmd/conf.json)")
	rootCmd.PersistentFlags().BoolVarP(&monitor, "monitor", "m", false, "serve Prometheus metrics on metricsaddr")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "",
		"log level (debug|info|warn|error), overrides the configuration")

	rootCmd.AddCommand(serveCmd, refreshCmd, versionCmd)
}

// newLogger builds a production logger at level, a development one for debug.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// app holds the resources shared by the services.
type app struct {
	conf    config.ServiceConfig
	log     *zap.Logger
	db      store.DB
	mb      msg.MsgBroker // nil when no broker is configured
	tracker *balance.Tracker
	wallet  *wallet.Wallet
}

// newApp reads the configuration and connects to the database, the message broker and the node.
func newApp(ctx context.Context) (*app, error) {
	conf, err := config.ExtractConfiguration(confPath)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		conf.LogLevel = logLevel
	}

	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{conf: conf, log: logger}

	logger.Info("configuration loaded",
		zap.String("dbtype", conf.DbType), zap.String("mbtype", conf.MbType), zap.String("node", conf.Node.URL))

	if a.db, err = db.New(conf.DbType, conf.DbConn); err != nil {
		return nil, fmt.Errorf("connecting to %s database: %w", conf.DbType, err)
	}

	if a.mb, err = openBroker(ctx, conf, logger); err != nil {
		a.close()
		return nil, err
	}

	if monitor {
		metrics.Serve(ctx, conf.MetricsAddr, logger)
	}

	nm := metrics.NewNodeClient()

	node, err := block.Init(conf.Node, nm)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("creating node client: %w", err)
	}

	a.tracker = balance.NewTracker(a.db.Observations(), a.db.Balances())
	a.wallet = wallet.New(block.NewGateway(node, conf.Node.Attempts, logger, nm), a.tracker, a.mb, logger)

	return a, nil
}

// openBroker connects to the configured message broker. Like the database, the broker may still be starting, so a
// failed connection is tried once more after brokerWait.
func openBroker(ctx context.Context, conf config.ServiceConfig, logger *zap.Logger) (msg.MsgBroker, error) {
	if conf.MbType == "" {
		logger.Warn("no message broker configured, balance events are disabled")
		return nil, nil
	}

	mb, err := amqp.New(conf.MbConn, logger)
	if err != nil {
		logger.Warn("message broker not ready", zap.Duration("wait", brokerWait), zap.Error(err))

		if err = util.SleepWithContext(ctx, brokerWait); err != nil {
			return nil, err
		}

		if mb, err = amqp.New(conf.MbConn, logger); err != nil {
			return nil, fmt.Errorf("connecting to message broker: %w", err)
		}
	}

	if err = mb.Setup(); err != nil {
		_ = mb.Close()
		return nil, fmt.Errorf("setting up message broker: %w", err)
	}

	return mb, nil
}

// close releases the broker and database connections.
func (a *app) close() {
	if a.mb != nil {
		if err := a.mb.Close(); err != nil {
			a.log.Error("closing message broker", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Close(ctx, a.db); err != nil {
		a.log.Error("closing database", zap.String("dbtype", a.conf.DbType), zap.Error(err))
	}

	_ = a.log.Sync()
}
