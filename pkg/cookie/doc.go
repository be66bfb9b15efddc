// Package cookie abstracts cookie transport behind a small Jar interface so
// guards can read and queue cookies without touching net/http directly.
//
// HTTPJar binds a Jar to a request/response pair for real traffic.
// MemoryJar keeps cookies in a map and doubles as a browser stand-in for
// tests: queued cookies are immediately readable, the way a browser replays
// Set-Cookie on the following request.
//
// Values pass through the jar untouched. Callers that need confidentiality,
// such as the remember-me recaller, encrypt before queueing.
package cookie
