// Package search implements retrieval-augmented question answering over the
// ingested documents.
//
// The Orchestrator embeds the query, retrieves the nearest chunks, keeps
// those whose similarity strictly exceeds the threshold, and asks the
// generator to answer from the surviving context only. When nothing clears
// the threshold a fixed answer is returned and the generator is skipped.
package search
