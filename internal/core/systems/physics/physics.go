package physics

// Minimal 2D vector math for point agents moving inside the unit square.

// Vec2 is a 2D vector used for both positions and velocities.
type Vec2 struct{ X, Y float64 }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// DistanceSq returns the squared Euclidean distance between a and b.
func DistanceSq(a, b Vec2) float64 { return b.Sub(a).LenSq() }

// Reflect1 keeps a coordinate inside [lo, hi]. When pos lies outside the
// interval the velocity component is negated and pos is clamped.
func Reflect1(pos, vel, lo, hi float64) (float64, float64) {
	switch {
	case pos < lo:
		return lo, -vel
	case pos > hi:
		return hi, -vel
	default:
		return pos, vel
	}
}

// ReflectUnit applies Reflect1 to each axis of pos independently against the
// unit square.
func ReflectUnit(pos, vel Vec2) (Vec2, Vec2) {
	pos.X, vel.X = Reflect1(pos.X, vel.X, 0, 1)
	pos.Y, vel.Y = Reflect1(pos.Y, vel.Y, 0, 1)
	return pos, vel
}
