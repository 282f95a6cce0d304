/*
Package brawn aligns query protein sequences against an existing multiple
sequence alignment by profile-profile alignment, reproducing MUSCLE's
profile mode.

The reference alignment is summarised once into a positional scoring
profile: per-column weighted residue compositions, scoring vectors, and
locally adjusted affine gap penalties, with near-duplicate reference
sequences down-weighted by a cluster tree. Building that profile dominates
the cost of aligning any single query, so a built profile can be written to
a cache file and reused across invocations; a fingerprint of the source
alignment guards against attaching a stale or foreign cache.

A built profile is read-only and safe to share across any number of
concurrent query alignments.
*/
package brawn
