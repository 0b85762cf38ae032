/*
Package log provides structured logging for the fleet scheduler using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific child loggers, configurable log levels, and helper
functions for common logging patterns. All logs include timestamps and support
filtering by severity level for production debugging.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Context Loggers                     │          │
	│  │  - WithComponent("scheduler")               │          │
	│  │  - WithNodeID("1f0e...")                    │          │
	│  │  - WithPolicy("hybrid")                     │          │
	│  │  - WithBundle("strict_spread")              │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Log Output                       │          │
	│  │                                              │          │
	│  │  JSON Format:                               │          │
	│  │  {                                           │          │
	│  │    "level": "debug",                        │          │
	│  │    "component": "scheduler",                │          │
	│  │    "node_id": "1f0e...",                    │          │
	│  │    "time": "2026-03-02T10:30:00Z",         │          │
	│  │    "message": "scheduling decision"         │          │
	│  │  }                                           │          │
	│  │                                              │          │
	│  │  Console Format:                            │          │
	│  │  10:30AM DBG scheduling decision component=scheduler │  │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Level Conventions

The scheduler core logs at Debug for per-call scheduling decisions (these are
hot-path and high-volume - a busy raylet schedules thousands of tasks a
second), Warn for infeasible requests and failed bundle placements, and Error
only for conditions the caller cannot recover from by retrying.

# Usage

Initializing:

	import "github.com/cuemby/warren-fleetsched/pkg/log"

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
	})

Component loggers:

	logger := log.WithComponent("scheduler")
	logger.Debug().
		Str("node_id", chosen.String()).
		Msg("scheduling decision")

Structured fields:

	log.Logger.Warn().
		Str("fingerprint", req.Fingerprint()).
		Msg("request infeasible on every known node")

Simple logging:

	log.Info("scheduler initialized")
	log.Fatal("cannot start without a local node id") // exits the process

# Performance

Zerolog is a zero-allocation logger when the level is filtered out, so Debug
instrumentation on the selection path costs nothing in production at Info
level. Avoid formatting values eagerly before the level check - prefer the
fluent field API over fmt.Sprintf inside Msg.
*/
package log
