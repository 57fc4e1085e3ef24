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

package common

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/ledgerbrowse"
)

type GlobalFlags struct {
	Flagset *flag.FlagSet
	Address string
	UseTls  bool
	Network string
	Debug   bool
	// Resolved from -network when not overridden
	StartBlockId string
}

func NewGlobalFlags() *GlobalFlags {
	f := &GlobalFlags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(
		&f.Address,
		"address",
		"",
		"websocket address of the node in address:port format. this overrides the -network option",
	)
	f.Flagset.BoolVar(&f.UseTls, "tls", false, "enable TLS")
	f.Flagset.StringVar(
		&f.Network,
		"network",
		"local",
		"specifies network that node is participating in",
	)
	f.Flagset.BoolVar(&f.Debug, "debug", false, "enable debug logging to stderr")
	return f
}

func (f *GlobalFlags) Parse() {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	network := ledgerbrowse.NetworkByName(f.Network)
	if network == ledgerbrowse.NetworkInvalid {
		fmt.Printf("Invalid network specified: %s\n", f.Network)
		os.Exit(1)
	}
	if f.Address == "" {
		f.Address = network.Address
		f.UseTls = f.UseTls || network.UseTLS
	}
	f.StartBlockId = network.GenesisBlockId
}

// Logger returns a logger that writes to stderr when -debug is set and discards
// everything otherwise
func (f *GlobalFlags) Logger() *slog.Logger {
	level := slog.LevelError
	if f.Debug {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
}
