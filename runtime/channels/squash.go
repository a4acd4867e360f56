package channels

// Squasher is implemented by message types that merge a newer value into an
// older, not yet fetched one. Types without it are overwritten.
//
//	func (d *OdometryDelta) Squash(newer OdometryDelta) { d.X += newer.X }
type Squasher[T any] interface {
	Squash(newer T)
}

// Squash merges newer into base using the type's merge rule.
func Squash[T any](base *T, newer T) {
	if s, ok := any(base).(Squasher[T]); ok {
		s.Squash(newer)
		return
	}
	*base = newer
}

// SquashAll folds vals from oldest to newest.
func SquashAll[T any](vals []T) T {
	if len(vals) == 0 {
		panic("channels: SquashAll of no values")
	}
	ret := vals[0]
	for _, v := range vals[1:] {
		Squash(&ret, v)
	}
	return ret
}
