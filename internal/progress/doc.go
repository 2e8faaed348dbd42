// Package progress models the step-level progress events the analysis
// service streams while a job runs, and provides the subscription that
// delivers them.
//
// Progress is advisory: a malformed event is dropped, a lost stream is
// retried with backoff and then abandoned, and none of this ever fails the
// job it belongs to.
package progress
