// Package passwordreset implements the password reset and email
// verification flows.
//
// Reset tokens are single use and stored hashed, at most one pending token
// per email address. The raw token is derived from random bytes keyed
// through HMAC-SHA256 with the application secret and is only ever returned
// once, from TokenRepository.Create. Broker drives the flow and reports
// outcomes as stable message keys ("passwords.sent", "passwords.token", ...)
// rather than errors, keeping user-facing wording out of this package.
//
// VerificationBroker covers email verification with stateless signed links
// carrying their own expiry.
package passwordreset
