package field

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type numeric interface {
	constraints.Integer | constraints.Float
}

type Rectangle2u = Rectangle2[uint32]

// Rectangle2 is an axis aligned rectangle described by its min (inclusive)
// and max (exclusive) corners.
type Rectangle2[T numeric] struct {
	MinX, MinY T
	MaxX, MaxY T
}

func RectangleFromXYWH[T numeric](x, y, w, h T) Rectangle2[T] {
	return Rectangle2[T]{
		MinX: x,
		MinY: y,
		MaxX: x + w,
		MaxY: y + h,
	}
}

func (r Rectangle2[T]) Width() T {
	return r.MaxX - r.MinX
}

func (r Rectangle2[T]) Height() T {
	return r.MaxY - r.MinY
}

func (r Rectangle2[T]) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Contains reports whether other lies fully within r.
func (r Rectangle2[T]) Contains(other Rectangle2[T]) bool {
	return other.MinX >= r.MinX && other.MaxX <= r.MaxX &&
		other.MinY >= r.MinY && other.MaxY <= r.MaxY
}

func (r Rectangle2[T]) String() string {
	return fmt.Sprintf("[%v,%v - %v,%v]", r.MinX, r.MinY, r.MaxX, r.MaxY)
}
