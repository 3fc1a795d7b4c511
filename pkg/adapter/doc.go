/*
Package adapter binds indexer identities to their handler modules and
translates opaque envelopes into typed handler calls.

Two module kinds collapse into the same HandlerProxy interface: native
Go plugins, loaded through a registration symbol with the store
capability injected before any handler runs, and sandboxed wasm
modules, where host exports mediate every store access.

Per-chain proxies decode the envelope payload and drive the adapter's
vtable — block, extrinsic and event handlers on substrate; block,
transaction and log-message handlers on solana; matched data-source
triggers on ethereum (and its matic alias). Each handler call runs
inside the entity cache's handler boundary, so a failing handler
discards only its own pending writes; after a successful chain of calls
the proxy flushes the block's accumulated modifications.
*/
package adapter
