// Package chhttp builds and executes the HTTP requests that carry
// queries, inserts and watches to a ClickHouse server. It owns URL and
// query-string assembly, GET-vs-POST selection, and the tuned transport
// settings the reference kittenhouse daemon uses against this database's
// HTTP endpoint (short HTTP keep-alive, longer TCP keep-alive). It also
// carries a fasthttp-backed bulk path for callers that prefer a single
// buffered POST over a streamed request body (used by cmd/chcat's
// benchmarking mode).
package chhttp
