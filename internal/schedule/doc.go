// Package schedule decides when each tracked market should next be polled.
//
// Cadence adapts to how close a game is to starting: a far cadence while
// kickoff is more than a threshold away, a near cadence inside that window,
// and no polling at all once the game has started. The stopped state is
// terminal. Poll state lives in memory only and resets on restart.
package schedule
