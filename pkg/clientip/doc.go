// Package clientip resolves the real client address behind reverse proxies.
// The session guard uses the address for its login throttle key and the
// attempt audit trail, so the resolution order prefers trusted proxy headers
// over the raw connection address.
//
//	req := manager.Request(
//		auth.WithSession(sess),
//		auth.WithCookieJar(jar),
//		auth.WithClientIP(clientip.FromRequest(r)),
//	)
package clientip
