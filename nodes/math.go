package nodes

import (
	"math"

	"github.com/mechres/zbd/prim"
)

// Pi as a float32, the bound for stored Euler angles.
const Pi = float32(math.Pi)

// EulerToMatrix computes the rotation matrix the engine derives from the
// stored ZYX Euler angles. All arithmetic is single precision so the
// result is bit-comparable with on-disk matrices.
func EulerToMatrix(rotation prim.Vec3) prim.Matrix {
	x := -rotation.X
	y := -rotation.Y
	z := -rotation.Z

	sinX := float32(math.Sin(float64(x)))
	cosX := float32(math.Cos(float64(x)))
	sinY := float32(math.Sin(float64(y)))
	cosY := float32(math.Cos(float64(y)))
	sinZ := float32(math.Sin(float64(z)))
	cosZ := float32(math.Cos(float64(z)))

	// build up the combined rotation matrix Z * Y * X
	return prim.Matrix{
		cosY * cosZ,
		sinX*sinY*cosZ - cosX*sinZ,
		cosX*sinY*cosZ + sinX*sinZ,
		cosY * sinZ,
		sinX*sinY*sinZ + cosX*cosZ,
		cosX*sinY*sinZ - sinX*cosZ,
		-sinY,
		sinX * cosY,
		cosX * cosY,
	}
}

// PartitionDiag reproduces the engine's diagonal-length computation for a
// partition cell. The engine used a fast inverse-square-root style
// approximation instead of a true sqrt, so IEEE sqrt does not match the
// stored values; this approximation must be used for bit-exact output.
func PartitionDiag(yMin, yMax float32) float32 {
	// each cell is 256 x 256 in the XZ plane
	dx := float32(256.0)
	dy := yMax - yMin
	dz := float32(256.0)
	sq := dx*dx + dy*dy + dz*dz
	return approxSqrt(sq) * -0.5
}

// approxSqrt is the engine's sqrt approximation: the float's bit pattern
// halved with an exponent-bias correction and no refinement step. The
// error is what the files carry (e.g. a 256x256 cell diagonal of 384.0
// where IEEE sqrt gives 362.04).
func approxSqrt(v float32) float32 {
	if v <= 0 {
		return 0
	}
	bits := math.Float32bits(v)
	return math.Float32frombits((bits >> 1) + 0x1FC00000)
}
