// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub broadcasts live tally updates to websocket clients.

	h := hub.New()
	go h.Run(ctx)

	h.Register(hub.NewWebsocketClient(conn))
	h.Broadcast(payload)

Broadcast never blocks the vote path: when the queue is full the update is
dropped, because the next committed vote produces a complete fresh tally.
Clients that fail a write are closed and removed.
*/
package hub
