// Package scopes provides parsing, serialization and membership checks for
// access-token capability scopes.
//
// A scope is a plain string tag such as "post:read". The global wildcard "*"
// grants every capability. Membership checks are exact string matches plus
// the wildcard; an empty collection grants nothing.
package scopes
