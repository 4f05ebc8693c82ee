package schedule

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals (aEnd == bStart) do not
// overlap, so back-to-back lessons are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidRange reports whether start is strictly before end. Callers must
// reject malformed ranges before running any overlap check.
func ValidRange(start, end time.Time) bool {
	return start.Before(end)
}

// Dimension is a resource axis along which double-booking is checked.
type Dimension string

const (
	DimInstructor Dimension = "instructor"
	DimStudent    Dimension = "student"
	DimVehicle    Dimension = "vehicle"
)

// ConflictDimensions lists the axes in check order. The order decides
// which conflict is reported when a candidate collides on more than one
// axis, so it must stay stable.
var ConflictDimensions = []Dimension{DimInstructor, DimStudent, DimVehicle}
