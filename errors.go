package lingolens

import "errors"

// Placement and lifecycle errors. All of them are local and non-fatal; none
// is retried automatically.
var (
	// ErrPlacementFailed means every raycast strategy failed.
	ErrPlacementFailed = errors.New("lingolens: could not find a surface to place the label on")
	// ErrInvalidLabel means the label was empty or whitespace only.
	ErrInvalidLabel = errors.New("lingolens: label is empty")
	// ErrInvalidIndex means a delete referenced a stale or out-of-range index.
	ErrInvalidIndex = errors.New("lingolens: annotation index out of range")
	// ErrPlacementInProgress means an add arrived while another was placing.
	ErrPlacementInProgress = errors.New("lingolens: a placement is already in progress")
	// ErrInvalidScale means a rescale factor was not a positive finite number.
	ErrInvalidScale = errors.New("lingolens: scale must be positive")
)
