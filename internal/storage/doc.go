// Package storage defines the atoms a wide-column table is made of: point
// cells and range tombstones positioned by composite names, together with
// the comparator suite that orders them and the binary serializers that move
// them.
//
// The comparators derived here are the single source of ordering truth for
// the engine: the same suite sorts cells on the write path and drives merge
// and lookup on the read path. Any divergence between the two corrupts query
// results silently, so callers must always obtain both sides from one Suite.
package storage
