package motion

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

func TestMotionRoundtrip(t *testing.T) {
	loop := Frame{
		Translation: prim.Vec3{X: 1, Y: 2, Z: 3},
		Rotation:    prim.Vec4{X: 0, Y: 0, Z: 0, W: 1},
	}
	mid := Frame{
		Translation: prim.Vec3{X: 4, Y: 5, Z: 6},
		Rotation:    prim.Vec4{X: 0.5, Y: 0, Z: 0, W: 0.5},
	}
	motion := &Motion{
		LoopTime:   1.25,
		FrameCount: 3,
		Parts: []Part{
			// first and last frames equal for loop continuity
			{Name: "torso", Frames: []Frame{loop, mid, loop}},
			{Name: "head", Frames: []Frame{loop, loop, loop}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMotion(iox.NewWriter(&buf), motion))
	first := append([]byte(nil), buf.Bytes()...)

	out, err := ReadMotion(iox.NewReader(bytes.NewReader(first)))
	require.NoError(t, err)
	require.Equal(t, motion, out)

	var second bytes.Buffer
	require.NoError(t, WriteMotion(iox.NewWriter(&second), out))
	require.Equal(t, first, second.Bytes())
}

func TestMotionLoopContinuity(t *testing.T) {
	motion := &Motion{
		LoopTime:   1.0,
		FrameCount: 2,
		Parts: []Part{{
			Name: "torso",
			Frames: []Frame{
				{Translation: prim.Vec3{X: 1}},
				{Translation: prim.Vec3{X: 2}},
			},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMotion(iox.NewWriter(&buf), motion))
	_, err := ReadMotion(iox.NewReader(bytes.NewReader(buf.Bytes())))
	require.Error(t, err)
}
