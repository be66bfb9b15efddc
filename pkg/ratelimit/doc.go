// Package ratelimit throttles repeated attempts with a sliding window over
// individual attempt timestamps.
//
// SlidingWindow admits at most limit attempts per key within a moving
// window. Timestamps live in a Store: MemoryStore for single-process use,
// RedisStore for windows shared across processes, implemented as a sorted
// set pruned and checked atomically by a Lua script.
//
// LoginKey builds the conventional throttle key for login attempts from the
// account identifier and client address, so lockouts on one account do not
// spill over to others behind the same NAT.
package ratelimit
