// Package audit records authentication attempts for later review.
//
// A Recorder persists LoginAttempt records; PostgresRecorder writes them to
// a login_attempts table and MemoryRecorder keeps them in process for tests.
// AsyncRecorder wraps any Recorder with a buffered background worker so the
// login path never blocks on audit I/O. A full buffer drops the record and
// logs the drop; audit here is best effort by contract.
package audit
