/*
Package hub provides the in-process broadcast fabric between chain
ingestors and subscriber streams.

Each (chain, network) pair maps to one topic: a fixed-size ring buffer
with a single publisher (the ingestor) and any number of subscribers,
each holding an independent cursor into the ring.

	┌──────────── TOPIC (per ChainKey) ────────────┐
	│                                                │
	│  Publisher ──► ring[head % size], head++       │
	│                                                │
	│  Subscriber A ── cursor a ──► Recv in order    │
	│  Subscriber B ── cursor b ──► Recv in order    │
	│                                                │
	└────────────────────────────────────────────────┘

Semantics:

  - Every live subscriber receives every message published after its
    subscription instant, in publish order.
  - Publish never blocks. A subscriber that falls behind by more than
    the ring size receives a Lagged error with the missed count and is
    skipped forward to the oldest retained message.
  - The hub is not durable. Historical backfill is the consumer's
    responsibility, using its cursor against the subscription server.
  - Closing the publisher ends every subscriber with ErrClosed once the
    retained messages are drained.

Topics are created by Register (one per ingestor) and removed when the
publisher closes.
*/
package hub
