// Package filler is the fill engine for text-like elements. Writes go through
// the element's native value setter followed by input, change and blur events.
// A write the page did not keep is retried as simulated typing.
package filler
