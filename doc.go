/*
Command-free library module join-sub004 ("libjoin") is a general-purpose
systems support library for Linux network services: synchronization
primitives (backoff, mutex/condition variants, scoped locks), a thread
pool, an event-driven I/O reactor with a multi-reactor pool, CPU/NUMA
topology discovery, local and POSIX shared memory providers, a
timerfd-backed timer, a file content cache, and a process-wide error
taxonomy.

JSON, crypto, and HTTP/chunked-stream support live under collab/ as thin
external-collaborator packages exercising the core's public surface.
*/
package join
