// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/jrick/logrotate/rotator"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/creator-staking/eventdb"
	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/lvldb"
	"github.com/vechain/creator-staking/metrics"
	"github.com/vechain/creator-staking/node"
)

const defaultBlockInterval = 10 * time.Second

// initLogger installs the root handler and returns the level it filters on,
// so that the admin API can change it at runtime. When a log file is configured,
// records are also written to it with size based rotation.
func initLogger(ctx *cli.Context) (*slog.LevelVar, func(), error) {
	lvl := new(slog.LevelVar)
	lvl.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	format := log.FormatTerminal
	if ctx.Bool(jsonLogsFlag.Name) {
		format = log.FormatJSON
	}

	var (
		output  io.Writer = os.Stderr
		closeFn           = func() {}
	)
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	if logFile := ctx.String(logFileFlag.Name); logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
			return nil, nil, errors.Wrap(err, "create log directory")
		}
		r, err := rotator.New(logFile, 10*1024, false, 3)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create log rotator")
		}
		output = io.MultiWriter(os.Stderr, r)
		closeFn = func() { r.Close() }
		// escape codes would end up in the file
		useColor = false
	}
	log.SetDefault(log.NewHandler(output, format, lvl, useColor))
	return lvl, closeFn, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "creator-staking")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "creator-staking")
		default:
			return filepath.Join(home, ".creator-staking")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(dataDir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", path)
	}
	return db, nil
}

func openEventDB(dataDir string) (*eventdb.EventDB, error) {
	path := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "open event database [%v]", path)
	}
	return db, nil
}

// openNode opens the databases and the node configured by ctx.
// The returned close function releases all of them in reverse order.
func openNode(ctx *cli.Context, persist bool) (*node.Node, *eventdb.EventDB, string, func(), error) {
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return nil, nil, "", nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, "", nil, errors.WithMessage(err, "invalid staking config")
	}
	options, err := cfg.NodeOptions()
	if err != nil {
		return nil, nil, "", nil, err
	}
	options.BlockInterval = ctx.Duration(blockIntervalFlag.Name)

	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		dataDir = "Memory"
	)
	if persist {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return nil, nil, "", nil, err
		}
		if mainDB, err = openMainDB(dataDir); err != nil {
			return nil, nil, "", nil, err
		}
		if eventDB, err = openEventDB(dataDir); err != nil {
			mainDB.Close()
			return nil, nil, "", nil, err
		}
	} else {
		if mainDB, err = lvldb.NewMem(); err != nil {
			return nil, nil, "", nil, err
		}
		if eventDB, err = eventdb.NewMem(); err != nil {
			mainDB.Close()
			return nil, nil, "", nil, err
		}
	}

	n, err := node.New(mainDB, params, options)
	if err != nil {
		eventDB.Close()
		mainDB.Close()
		return nil, nil, "", nil, err
	}
	closeAll := func() {
		logger.Info("closing node...")
		n.Close()
		logger.Info("closing event database...")
		eventDB.Close()
		logger.Info("closing main database...")
		mainDB.Close()
	}
	return n, eventDB, dataDir, closeAll, nil
}

// serve runs srv on addr until ctx is done.
func serve(ctx context.Context, name, addr string, handler http.Handler) (string, func() error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	run := func() error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("stopping "+name+" server...")
			srv.Shutdown(shutdownCtx)
		}()
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return errors.Wrapf(err, "%s server", name)
		}
		return nil
	}
	return "http://" + listener.Addr().String() + "/", run, nil
}

func metricsHandler() http.Handler {
	metrics.InitializePrometheusMetrics()
	return metrics.HTTPHandler()
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
