package wine

import "errors"

// Domain errors for cellar records and enrichment.

var (
	// Entity validation errors
	ErrNameRequired  = errors.New("wine name is required")
	ErrColorRequired = errors.New("wine color is required")

	// Enrichment preconditions. Aging is undefined without a reference
	// year, so this is an explicit absence rather than a degraded result.
	ErrVintageRequired = errors.New("vintage is required for aging analysis")

	// Store errors
	ErrWineNotFound = errors.New("wine not found")
)
