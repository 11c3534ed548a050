// Package observe is the diagnostic surface for memoized functions.
//
// A Recorder turns memo events into structured logs and OpenTelemetry
// metrics; Wrap puts a span, a duration histogram and a log line around each
// computation run. None of it changes cache behavior, and a memo with no
// observer returns the same results in the same order.
package observe
