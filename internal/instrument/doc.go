// Package instrument provides the static metadata table mapping provider
// symbols to their price scaling parameters.
//
// The provider encodes prices as fixed-point integers; each instrument has a
// price scale (the divisor restoring the decimal price) and a point (the
// decimal value of one raw integer step). A built-in table covers common FX
// pairs and metals; deployments add or override instruments with a YAML
// overlay file, no code change required.
//
// Lookups are case-insensitive and read-only. Tables are immutable after
// construction and safe for concurrent use.
package instrument
