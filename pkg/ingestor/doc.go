/*
Package ingestor follows the heads of the supported chains and turns
finalized blocks into ordered envelope streams.

One ingestor runs per (chain, network) pair, uniquely owning that pair's
hub publisher. All three strategies share the same contract: envelopes
of DataType Block are published in strictly increasing block order, and
the topic closes when the ingestor stops.

Ethereum and Solana are tip followers: a head (or slot) subscription
drives a stable cursor tip − finality margin; every block in the newly
stable range is fetched in parallel with bounded concurrency and
published strictly in order through a reorder point. A block whose
fetch keeps failing after backed-off retries is skipped and counted as
a gap — downstream consumers detect it through the monotonic
block-number contract.

Substrate subscribes to finalized heads and publishes one Block
envelope per head followed by one Event envelope per event record.
Event decoding requires the chain's runtime metadata and is delegated
to the EventSource collaborator.

Upstream disconnects reconnect with exponential backoff; a cancelled
context is the only clean exit.
*/
package ingestor
