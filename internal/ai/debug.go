package ai

import "sync/atomic"

// debugLoggingEnabled gates slog.Debug calls on the per-tick hot path.
// Set once at startup from the configured log level.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for AI subsystem.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
// Guard debug logs that build attributes every tick:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("NPC next waypoint", "npc", id, "x", wp.X)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
