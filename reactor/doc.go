/*
Package reactor implements the event-driven dispatcher at the center of
the module: a per-thread, edge-triggered multiplexer (Reactor) and a
process-wide pool of them (Pool) that load-balances handler registration
across one Reactor per physical core.

A Reactor owns exactly one dispatch goroutine, one epoll (or kqueue)
instance, and one eventfd-like wake channel used to linearise
administrative requests (add/delete/shutdown) without holding a lock
during callback execution. Handlers are never called concurrently with
themselves within one Reactor.
*/
package reactor
