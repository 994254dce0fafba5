// Package pipeline drives a single mention count run.
//
// Stages run strictly in order and the first failure ends the run:
//
//	load_lexicon → authenticate → find_submission → fetch_comments → match → export
//
// Every stage gets its own span, a start and completion log line carrying the
// run id, and a duration gauge in the run metrics.
package pipeline
