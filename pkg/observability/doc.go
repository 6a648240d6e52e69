/*
Package observability provides tools for monitoring the registration desk.

It includes Prometheus collectors fed by the engine's lifecycle hooks,
structured-log hooks for auditing transitions, and a helper to chain several
hook sets into one.
*/
package observability
