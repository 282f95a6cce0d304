package brawn

// ValidationError reports malformed alignment input: unequal sequence
// lengths, duplicate or missing names, or empty input.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

// UnsupportedAlphabetError reports a character in a sequence that cannot be
// interpreted as a residue, a gap, or a substitutable unknown letter.
type UnsupportedAlphabetError struct {
	Name string
	Char byte

	msg string
}

func (e UnsupportedAlphabetError) Error() string { return e.msg }

// CorruptCacheError reports a cache file that could not be parsed: invalid
// JSON, a missing or unknown format marker, an incompatible version, or
// inconsistent column and sequence counts.
type CorruptCacheError struct {
	msg string
}

func (e CorruptCacheError) Error() string { return e.msg }

// CacheMismatchError reports a structurally valid cache whose identity
// fingerprint does not match the alignment it is being attached to.
type CacheMismatchError struct {
	msg string
}

func (e CacheMismatchError) Error() string { return e.msg }

// AlignmentError reports malformed aligner input, such as an empty query or
// an empty profile.
type AlignmentError struct {
	msg string
}

func (e AlignmentError) Error() string { return e.msg }
