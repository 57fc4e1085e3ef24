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

// Package browse locates every occurrence of a contract instance in the history of a
// ledger by paging through its blocks from a start block to the head of the chain.
//
// A Browser starts one Session per search. Each session owns its own page fetcher and
// connection, scans blocks in ledger order, reports coarse-grained progress against a
// best-effort total chain length, and produces a single Result when it completes or is
// aborted. Stream resets reported by the node are retried on a new stream with single
// block pages; any other failure ends the session.
package browse
