package usecase

import "time"

const (
	defaultPageSize = 20
	maxPageSize     = 100

	balanceCacheTTL       = 30 * time.Second
	balanceCacheKeyPrefix = "balance:"

	// consistencyChainDepth bounds how many recent movements the consistency
	// check replays per currency.
	consistencyChainDepth = 200
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
