/*
Package store implements the entity write cache sitting between handler
code and the persistent store.

Handlers never write to the store directly. Every Save/Remove lands in a
per-handler op set; on handler exit the ops fold into the block-level op
set; at block end AsModifications turns the block's ops into the minimal
batch of Insert/Overwrite/Remove modifications, which Flush commits
atomically with the block pointer.

	handler ──► handlerUpdates ──ExitHandler──► updates
	                                              │
	                                    AsModifications
	                                              │
	                        [Insert | Overwrite | Remove]* ──► Flush

Three layers back a read:

  - current: LRU-bounded mirror of the store's state (nil = known
    absent), memoized on first miss and carried across blocks.
  - updates: one accumulated pending op per key for the whole block.
  - handlerUpdates: ops of the currently executing handler, discarded
    wholesale if the handler fails.

Accumulation keeps at most one pending op per key: updates merge
field-wise, an overwrite replaces, a remove wins, and an update after a
remove recreates the entity via overwrite. Materialization only emits a
modification when the post-op entity differs from the stored state, so
re-running an idempotent handler produces no writes.

The cache is single-owner (one consumer loop) and not safe for
concurrent use.
*/
package store
