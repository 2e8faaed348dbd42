// Package orchestration owns the lifecycle of analysis jobs. The Coordinator
// validates a selection, opens the progress subscription, issues the primary
// request and turns every outcome into a message; Transition folds those
// messages into the single JobState that front ends render.
//
// Each job carries a generation token. Starting a job supersedes the previous
// one, and any event or outcome whose token is not current is discarded, so
// the last job started always wins regardless of completion order.
package orchestration
