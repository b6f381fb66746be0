// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/creator-staking/api"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/eventdb"
	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "creator-staking",
		Usage:   "Creator staking engine with round snapshots",
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run the staking node with its API and block clock",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					persistFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiEventsLimitFlag,
					enableAPILogsFlag,
					enableMutationsFlag,
					blockIntervalFlag,
					metricsAddrFlag,
					verbosityFlag,
					jsonLogsFlag,
					logFileFlag,
				},
				Action: soloAction,
			},
			{
				Name:  "inspect",
				Usage: "dump the stored staking state",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					stakerFlag,
					verbosityFlag,
				},
				Action: inspectAction,
			},
			{
				Name:  "reconcile",
				Usage: "recompute every aggregate and report drift",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					verbosityFlag,
				},
				Action: reconcileAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel, closeLog, err := initLogger(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	metricsAddr := ctx.String(metricsAddrFlag.Name)
	if metricsAddr != "" {
		// must happen before any meter is loaded
		metricsHandler()
	}

	n, eventDB, dataDir, closeNode, err := openNode(ctx, ctx.Bool(persistFlag.Name))
	if err != nil {
		return err
	}
	defer closeNode()

	exitCtx, stop := handleExitSignal()
	defer stop()

	group, groupCtx := errgroup.WithContext(exitCtx)

	recorder := eventdb.NewRecorder(eventDB, n)
	group.Go(func() error {
		return recorder.Run(groupCtx)
	})

	handler, closeAPI := api.New(n, eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableMutations: ctx.Bool(enableMutationsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   metricsAddr != "",
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		LogLevel:        logLevel,
	})
	defer func() { logger.Info("closing API streams..."); closeAPI() }()

	abort := func(err error) error {
		stop()
		group.Wait()
		return err
	}

	apiURL, runAPI, err := serve(groupCtx, "API", ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return abort(err)
	}
	group.Go(runAPI)

	if metricsAddr != "" {
		metricsURL, runMetrics, err := serve(groupCtx, "metrics", metricsAddr, metricsHandler())
		if err != nil {
			return abort(err)
		}
		group.Go(runMetrics)
		logger.Info("metrics service started", "url", metricsURL+"metrics")
	}

	n.Start()
	printStartupMessage(n.Params(), dataDir, apiURL, ctx.Bool(enableMutationsFlag.Name))

	return group.Wait()
}

func inspectAction(ctx *cli.Context) error {
	_, closeLog, err := initLogger(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	n, _, _, closeNode, err := openNode(ctx, true)
	if err != nil {
		return err
	}
	defer closeNode()

	var stakers []thor.Address
	for _, s := range ctx.StringSlice(stakerFlag.Name) {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return errors.WithMessagef(err, "staker %q", s)
		}
		stakers = append(stakers, *addr)
	}

	return n.View(func(s *staking.Staking, ledger *custody.Ledger) error {
		return dumpState(os.Stdout, s, ledger, stakers)
	})
}

func dumpState(w io.Writer, s *staking.Staking, ledger *custody.Ledger, stakers []thor.Address) error {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true}

	current, err := s.CurrentRound()
	if err != nil {
		return err
	}
	total, err := s.TotalStaked()
	if err != nil {
		return err
	}
	creators, err := s.Creators()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "round %d (first block %d, length %d), total staked %s\n",
		current.Index, current.FirstBlock, current.Length, total.Dec())
	fmt.Fprintf(w, "%d creators\n", len(creators))
	for _, c := range creators {
		cfg.Fdump(w, c)
	}

	for _, id := range stakers {
		staker, err := s.Staker(id)
		if err != nil {
			return err
		}
		if staker == nil {
			fmt.Fprintf(w, "staker %v: not found\n", id)
			continue
		}
		balance, err := ledger.Balance(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "staker %v: free %s, reserved %s\n", id, balance.Free.Dec(), balance.Reserved.Dec())
		cfg.Fdump(w, staker)
		for _, creator := range staker.Creators {
			state, err := s.StakeState(id, creator)
			if err != nil {
				return err
			}
			cfg.Fdump(w, state)
		}
	}
	return nil
}

func reconcileAction(ctx *cli.Context) error {
	_, closeLog, err := initLogger(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	n, _, _, closeNode, err := openNode(ctx, true)
	if err != nil {
		return err
	}
	defer closeNode()

	var report *staking.ReconcileReport
	if err := n.View(func(s *staking.Staking, _ *custody.Ledger) (err error) {
		report, err = s.Reconcile()
		return
	}); err != nil {
		return err
	}

	fmt.Printf("checked %d creators, %d stakers, %d positions, total staked %s\n",
		report.Creators, report.Stakers, report.Positions, report.TotalStaked.Dec())
	if report.OK() {
		fmt.Println("no drift")
		return nil
	}
	for _, d := range report.Drifts {
		fmt.Println(d.String())
	}
	return errors.Errorf("%d drifts found", len(report.Drifts))
}

func printStartupMessage(params *staking.Params, dataDir, apiURL string, mutations bool) {
	mode := "read-only"
	if mutations {
		mode = "mutations enabled"
	}
	fmt.Printf(`Starting creator-staking %v
    Min stake      [ %v ]
    Round length   [ %v blocks ]
    Max chunks     [ %v ]
    Data dir       [ %v ]
    API portal     [ %v ] (%v)
`,
		fullVersion(),
		params.MinStake.Dec(),
		params.RoundLength,
		params.MaxUnlockingChunks,
		dataDir,
		apiURL,
		mode)
}
