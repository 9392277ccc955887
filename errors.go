package octree

import "github.com/pkg/errors"

// Fatal build errors. A build that returns one of these leaves any existing
// tree untouched. Test with errors.Is; returned errors carry extra context.
var (
	// ErrNonFinitePosition means a selected body has a NaN or infinite
	// position component, so it cannot be placed in any octant.
	ErrNonFinitePosition = errors.New("octree: body position is not finite")

	// ErrMaxDepthExceeded means insertion needed a box deeper than the
	// configured depth bound. This happens when more than Ncrit bodies share
	// the same position.
	ErrMaxDepthExceeded = errors.New("octree: maximum tree depth exceeded")

	// ErrExtentTooLarge means the bodies are spread so widely that the
	// root cube cannot be represented in float64.
	ErrExtentTooLarge = errors.New("octree: body extent too large")

	// ErrOutsideBounds means a body lies outside Config.Bounds.
	ErrOutsideBounds = errors.New("octree: body outside configured bounds")

	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = errors.New("octree: invalid config")

	// ErrNilBodySource is returned when a build is requested without bodies.
	ErrNilBodySource = errors.New("octree: nil body source")
)

// Warning kinds, used as log messages and as the metrics label.
const (
	warnEmptyTree    = "empty_tree"
	warnEmptySubtree = "empty_subtree"
)
