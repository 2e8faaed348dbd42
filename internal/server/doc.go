// Package server implements a replay of the analysis service. It serves
// /api/projects with a scripted progress sequence and a fixture body,
// streams those events on /api/progress, and exposes /api/health and
// /metrics. It backs local development and the end-to-end tests.
package server
