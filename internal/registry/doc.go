// Package registry discovers games and their tracked markets from the
// exchange and keeps an in-memory view of what the collector should poll.
//
// Each game lists two mirrored win markets; only the lexicographically
// smallest market ticker is tracked since the mirror carries the same
// information inverted. Game start times are estimated from the market's
// expected expiration and are immutable once recorded. Games that vanish
// from the listing for several consecutive passes are dropped from the
// poll set.
package registry
