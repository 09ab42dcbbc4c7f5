// Package prim defines the fixed-width primitive types shared by the asset
// codecs: packed float vectors, ranges, colors, matrices, zero-padded ASCII
// strings, and the opaque pointer wrapper.
//
// The packed types mirror the on-disk layout exactly (little-endian f32
// components, no padding) and are moved between byte slices and values with
// the Get/Put helpers at documented record offsets.
package prim

import (
	"github.com/mechres/zbd/endian"
)

var le = endian.Little()

// Vec3 is a packed triple of f32, 12 bytes on disk.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Vec3Size is the on-disk size of a Vec3.
const Vec3Size = 12

// Vec3Default is the all-zero vector required in cleared optional regions.
var Vec3Default = Vec3{}

// GetVec3 decodes a Vec3 from the first 12 bytes of b.
func GetVec3(b []byte) Vec3 {
	return Vec3{
		X: endian.Float32(le, b[0:]),
		Y: endian.Float32(le, b[4:]),
		Z: endian.Float32(le, b[8:]),
	}
}

// PutVec3 encodes v into the first 12 bytes of b.
func PutVec3(b []byte, v Vec3) {
	endian.PutFloat32(le, b[0:], v.X)
	endian.PutFloat32(le, b[4:], v.Y)
	endian.PutFloat32(le, b[8:], v.Z)
}

// Vec2 is a packed pair of f32, 8 bytes on disk. UV coordinates use it.
type Vec2 struct {
	U float32 `json:"u"`
	V float32 `json:"v"`
}

// Vec2Size is the on-disk size of a Vec2.
const Vec2Size = 8

// GetVec2 decodes a Vec2 from the first 8 bytes of b.
func GetVec2(b []byte) Vec2 {
	return Vec2{U: endian.Float32(le, b[0:]), V: endian.Float32(le, b[4:])}
}

// PutVec2 encodes v into the first 8 bytes of b.
func PutVec2(b []byte, v Vec2) {
	endian.PutFloat32(le, b[0:], v.U)
	endian.PutFloat32(le, b[4:], v.V)
}

// Range is a min/max pair of f32, 8 bytes on disk.
type Range struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// RangeSize is the on-disk size of a Range.
const RangeSize = 8

// RangeDefault is the all-zero range.
var RangeDefault = Range{}

// GetRange decodes a Range from the first 8 bytes of b.
func GetRange(b []byte) Range {
	return Range{Min: endian.Float32(le, b[0:]), Max: endian.Float32(le, b[4:])}
}

// PutRange encodes v into the first 8 bytes of b.
func PutRange(b []byte, v Range) {
	endian.PutFloat32(le, b[0:], v.Min)
	endian.PutFloat32(le, b[4:], v.Max)
}

// Color is an RGB triple of f32, 12 bytes on disk.
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
}

// ColorSize is the on-disk size of a Color.
const ColorSize = 12

// ColorBlack is the all-zero color.
var ColorBlack = Color{}

// GetColor decodes a Color from the first 12 bytes of b.
func GetColor(b []byte) Color {
	return Color{
		R: endian.Float32(le, b[0:]),
		G: endian.Float32(le, b[4:]),
		B: endian.Float32(le, b[8:]),
	}
}

// PutColor encodes v into the first 12 bytes of b.
func PutColor(b []byte, v Color) {
	endian.PutFloat32(le, b[0:], v.R)
	endian.PutFloat32(le, b[4:], v.G)
	endian.PutFloat32(le, b[8:], v.B)
}

// Vec4 is a packed quadruple of f32, 16 bytes on disk.
type Vec4 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// Vec4Size is the on-disk size of a Vec4.
const Vec4Size = 16

// Vec4Default is the all-zero quadruple.
var Vec4Default = Vec4{}

// GetVec4 decodes a Vec4 from the first 16 bytes of b.
func GetVec4(b []byte) Vec4 {
	return Vec4{
		X: endian.Float32(le, b[0:]),
		Y: endian.Float32(le, b[4:]),
		Z: endian.Float32(le, b[8:]),
		W: endian.Float32(le, b[12:]),
	}
}

// PutVec4 encodes v into the first 16 bytes of b.
func PutVec4(b []byte, v Vec4) {
	endian.PutFloat32(le, b[0:], v.X)
	endian.PutFloat32(le, b[4:], v.Y)
	endian.PutFloat32(le, b[8:], v.Z)
	endian.PutFloat32(le, b[12:], v.W)
}

// Matrix is a row-major 3x3 matrix of f32, 36 bytes on disk.
type Matrix [9]float32

// MatrixSize is the on-disk size of a Matrix.
const MatrixSize = 36

// MatrixIdentity is the identity matrix written for untransformed nodes.
var MatrixIdentity = Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}

// GetMatrix decodes a Matrix from the first 36 bytes of b.
func GetMatrix(b []byte) Matrix {
	var m Matrix
	for i := range m {
		m[i] = endian.Float32(le, b[i*4:])
	}
	return m
}

// PutMatrix encodes m into the first 36 bytes of b.
func PutMatrix(b []byte, m Matrix) {
	for i, v := range m {
		endian.PutFloat32(le, b[i*4:], v)
	}
}
