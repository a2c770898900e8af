package crawler

import "errors"

// ErrSeedUnreachable is returned when the seed page cannot be fetched or
// processed. It is the only error that aborts a crawl.
var ErrSeedUnreachable = errors.New("seed unreachable")

// ErrInvalidSeed marks a seed that is not an absolute http(s) URL.
// It is always wrapped together with ErrSeedUnreachable.
var ErrInvalidSeed = errors.New("invalid seed URL")
