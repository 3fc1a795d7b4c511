/*
Package api exposes the Streamout gRPC service: a liveness probe and the
ListBlocks server-streaming endpoint that fans envelopes out of the hub
to remote consumers.

Each ListBlocks call subscribes to the requested chain key, filters
envelopes below the requested start block, and forwards through a
bounded per-subscriber queue. Backpressure stops at the subscriber: a
client that cannot keep up first fills its own queue, then falls out of
the hub ring and is dropped with RESOURCE_EXHAUSTED. A missing chain
key fails with UNAVAILABLE; ingestor shutdown ends streams cleanly; a
non-zero end block closes the stream once delivered.
*/
package api
