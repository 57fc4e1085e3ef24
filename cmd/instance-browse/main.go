// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/blinklabs-io/ledgerbrowse"
	"github.com/blinklabs-io/ledgerbrowse/browse"
	"github.com/blinklabs-io/ledgerbrowse/cmd/common"
	"github.com/blinklabs-io/ledgerbrowse/ledger"
	"github.com/blinklabs-io/ledgerbrowse/protocol/chaintip"
	"github.com/blinklabs-io/ledgerbrowse/protocol/paginate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
)

type instanceBrowseFlags struct {
	*common.GlobalFlags
	startBlock     string
	pageSize       int
	numPages       int
	blockTimeout   time.Duration
	bech32Prefix   string
	metricsAddress string
	noProgress     bool
}

func newInstanceBrowseFlags() *instanceBrowseFlags {
	f := &instanceBrowseFlags{
		GlobalFlags: common.NewGlobalFlags(),
	}
	f.Flagset.StringVar(
		&f.startBlock,
		"start-block",
		"",
		"hex ID of the block to start from (defaults to the first block of the network)",
	)
	f.Flagset.IntVar(&f.pageSize, "page-size", browse.DefaultPageSize, "blocks per page")
	f.Flagset.IntVar(&f.numPages, "num-pages", browse.DefaultNumPages, "pages per request")
	f.Flagset.DurationVar(
		&f.blockTimeout,
		"block-timeout",
		60*time.Second,
		"how long to wait for the next page before giving up",
	)
	f.Flagset.StringVar(
		&f.bech32Prefix,
		"bech32-prefix",
		"",
		"also print instance IDs in bech32 form with the given prefix",
	)
	f.Flagset.StringVar(
		&f.metricsAddress,
		"metrics-address",
		"",
		"serve Prometheus metrics on this address while browsing",
	)
	f.Flagset.BoolVar(&f.noProgress, "no-progress", false, "do not show a progress bar")
	return f
}

func main() {
	// Parse commandline
	f := newInstanceBrowseFlags()
	f.Flagset.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <instance ID>\n\n", os.Args[0])
		f.Flagset.PrintDefaults()
	}
	f.Parse()
	if f.Flagset.NArg() != 1 {
		f.Flagset.Usage()
		os.Exit(1)
	}
	target, err := ledger.NewInstanceIDFromHex(f.Flagset.Arg(0))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if f.startBlock == "" {
		f.startBlock = f.StartBlockId
	}
	logger := f.Logger()

	opts := []browse.BrowseOptionFunc{
		browse.WithStartBlockID(f.startBlock),
		browse.WithPageSize(f.pageSize),
		browse.WithNumPages(f.numPages),
		browse.WithLogger(logger),
		browse.WithPaginateConfig(
			paginate.NewConfig(
				paginate.WithBlockTimeout(f.blockTimeout),
				paginate.WithLogger(logger),
			),
		),
		browse.WithLengthProvider(
			chaintip.NewProvider(
				ledgerbrowse.NewChainTipDialer(common.DialerOptions(f.GlobalFlags)...),
				chaintip.WithLogger(logger),
			),
		),
	}
	if f.metricsAddress != "" {
		reg := prometheus.NewRegistry()
		metrics, err := browse.NewMetrics(reg)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		opts = append(opts, browse.WithMetrics(metrics))
		go serveMetrics(f.metricsAddress, reg)
	}

	// Interrupting stops the search after the pages already requested
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	browser := browse.New(
		ledgerbrowse.NewPaginateDialer(common.DialerOptions(f.GlobalFlags)...),
		opts...,
	)
	session := browser.Search(ctx, target)

	var bar *progressbar.ProgressBar
	if !f.noProgress {
		bar = progressbar.Default(-1, "Scanning blocks")
	}
	progressChan := session.Progress()
	notificationChan := session.Notifications()
	for progressChan != nil || notificationChan != nil {
		select {
		case progress, ok := <-progressChan:
			if !ok {
				progressChan = nil
				continue
			}
			updateProgressBar(bar, progress)
		case notification, ok := <-notificationChan:
			if !ok {
				notificationChan = nil
				continue
			}
			if bar != nil {
				_ = bar.Clear()
			}
			fmt.Fprintln(os.Stderr, notification)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	result, ok := <-session.Result()
	if !ok {
		fmt.Printf("ERROR: %s\n", session.Err())
		os.Exit(1)
	}
	fmt.Printf(
		"Instance %s (%s after %d blocks)\n\n",
		target,
		session.State(),
		session.SeenBlocks(),
	)
	if f.bech32Prefix != "" {
		fmt.Printf("Bech32: %s\n\n", target.Bech32(f.bech32Prefix))
	}
	if len(result.MatchedInstructions) == 0 {
		fmt.Println("No matching instructions found")
		return
	}
	fmt.Printf(
		"Found %d instructions (%d on the instance):\n",
		len(result.MatchedInstructions),
		session.MatchCount(),
	)
	for idx, instruction := range result.MatchedInstructions {
		fmt.Printf("  block %s: %s\n", result.MatchedBlockHashes[idx], instruction)
	}
}

func updateProgressBar(bar *progressbar.ProgressBar, progress browse.Progress) {
	if bar == nil {
		return
	}
	if progress.TotalLength > 0 && bar.GetMax64() != progress.TotalLength {
		bar.ChangeMax64(progress.TotalLength)
	}
	_ = bar.Set64(progress.SeenBlocks)
}

func serveMetrics(address string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "ERROR: metrics listener: %s\n", err)
	}
}
