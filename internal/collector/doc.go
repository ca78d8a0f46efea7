// Package collector drives snapshot collection: on each tick it refreshes
// the registry, asks the scheduler which markets are due, fetches and
// normalizes their books concurrently, and appends the results to the
// store. A failing market never blocks the rest of a pass.
package collector
