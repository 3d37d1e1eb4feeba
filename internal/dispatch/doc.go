// Package dispatch connects the routing engine to net/http.
//
// Handler matches each request against the current router snapshot, records
// the matched pattern for logging, metrics and tracing, resolves the route's
// HandlerRef and invokes it with arguments built by the binding package.
// Named references are looked up in a Controllers registry; Closure
// references carry their function directly.
//
// RPCHandler serves the JSON RPC endpoint. Requests look like
//
//	{"func": "User::login", "params": ["alice", "secret"]}
//
// and are resolved through a service.Table into a class and method that is
// looked up in a Services registry. Every response uses the envelope
//
//	{"status": 200, "msg": "ok", "data": ...}
//
// Server owns the http.Server and its listener.
package dispatch
