// Package fetch retrieves compressed segment bytes through an injected
// transport and classifies every result into a tagged outcome.
//
// The provider reports an hour without activity as a 404 or an empty body;
// both are StatusNoData, a normal result rather than an error. Transient
// failures (timeouts, connection errors, 5xx, 429) are retried with
// exponential backoff and jitter under an explicit Policy; fatal responses
// and exhausted retries surface as a typed *Error the orchestrator records
// as a gap.
package fetch
