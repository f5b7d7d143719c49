/*
Package session owns presentation sessions.

A text field can show only one flow at a time. The Manager serializes flows
per named field with reference-counted locks, logs every outcome and reports
it to an optional observer such as observability.Metrics.
*/
package session
