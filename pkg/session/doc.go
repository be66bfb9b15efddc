// Package session provides the key-value state bag stateful guards persist
// authenticated users into.
//
// Two implementations are included. MemorySession keeps data in process
// memory and suits tests and single-process deployments. RedisSession is
// loaded from and flushed to Redis through a RedisStore; mutations work on a
// local copy and Save writes the JSON payload back under "session:<id>" with
// the store's TTL.
//
// Regenerate swaps the session identifier and is called on login to defeat
// session fixation. For Redis-backed sessions the old identifier is deleted
// on the next Save.
package session
