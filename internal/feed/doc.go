// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

/*
Package feed connects to the live roulette websocket and turns its messages into
batches of outcomes.

Connection Lifecycle:

	disconnected --dial+subscribe ok--> connected
	connected    --read/ping error-->   disconnected (sleep backoff, grow x1.6)
	any          --ctx canceled-->      stopped (single final report)

Only messages carrying a non-empty last20Results array are consulted. Every
other message shape is ignored without error. Each result item is decoded on its
own. A broken item drops only itself.

The batch handler runs synchronously on the read goroutine, so at most one batch
is in flight per connection and a slow consumer slows the reader.

WebSocket Endpoint: wss://dga.pragmaticplaylive.net/ws

Subscription message:

	{"type":"subscribe","casinoId":"ppcdk00000005349","currency":"BRL","key":[204]}
*/
package feed
