package nodes

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/prim"
)

func TestEulerToMatrixIdentity(t *testing.T) {
	require.Equal(t, prim.MatrixIdentity, EulerToMatrix(prim.Vec3{}))
}

func TestPartitionDiag(t *testing.T) {
	// a flat 256x256 cell: the engine's sqrt approximation yields 384.0
	// where IEEE sqrt gives 362.04, halved and negated
	require.Equal(t, float32(-192.0), PartitionDiag(0, 0))
}

func testObject3dInfo() NodeInfo {
	return NodeInfo{
		Name:        "torso",
		Flags:       FlagsBase | FlagAltitudeSurface | FlagIntersectSurface,
		UpdateFlags: 1,
		ZoneID:      1,
		Class:       ClassObject3d,
		DataPtr:     0xCAFE,
		MeshIndex:   -1,
		Field196:    160,
	}
}

func TestNodeInfoRoundtrip(t *testing.T) {
	for _, variant := range []Variant{VariantMW, VariantPM} {
		info := testObject3dInfo()
		info.AreaPartition = &AreaPartition{X: 3, Z: 7}
		info.HasParent = true
		info.ParentArrayPtr = 0x1111
		info.ChildrenCount = 2
		info.ChildrenArrayPtr = 0x2222
		info.NodeBbox = Bbox{Min: prim.Vec3{X: -1, Y: -1, Z: -1}, Max: prim.Vec3{X: 1, Y: 1, Z: 1}}

		var buf bytes.Buffer
		w := iox.NewWriter(&buf)
		require.NoError(t, WriteNodeInfo(w, variant, &info))
		require.Equal(t, NodeInfoSize(variant), uint32(buf.Len()))

		r := iox.NewReader(bytes.NewReader(buf.Bytes()))
		out, err := ReadNodeInfo(r, variant)
		require.NoError(t, err)
		require.Equal(t, info, out)
		require.NoError(t, AssertNodeInfo(&out, 0))
	}
}

func TestNodeInfoRejectsTooManyChildren(t *testing.T) {
	info := testObject3dInfo()
	info.ChildrenCount = 64
	info.ChildrenArrayPtr = 0x2222

	var buf bytes.Buffer
	require.NoError(t, WriteNodeInfo(iox.NewWriter(&buf), VariantMW, &info))
	_, err := ReadNodeInfo(iox.NewReader(bytes.NewReader(buf.Bytes())), VariantMW)
	require.NoError(t, err)

	info.ChildrenCount = 65
	require.Error(t, WriteNodeInfo(iox.NewWriter(&bytes.Buffer{}), VariantMW, &info))

	// force 65 into the raw bytes; the reader must reject it
	raw := buf.Bytes()
	le.PutUint32(raw[92:], 65)
	le.PutUint32(raw[96:], 0x2222)
	_, err = ReadNodeInfo(iox.NewReader(bytes.NewReader(raw)), VariantMW)
	require.Error(t, err)
}

func TestObject3dTransform(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		object3d := &Object3d{}
		var buf bytes.Buffer
		require.NoError(t, writeObject3d(iox.NewWriter(&buf), object3d))
		require.Len(t, buf.Bytes(), object3dSize)
		// the identity form writes data flags 40
		require.Equal(t, uint32(40), le.Uint32(buf.Bytes()))

		out, err := readObject3d(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.Nil(t, out.Transformation)
	})

	t.Run("derived matrix", func(t *testing.T) {
		object3d := &Object3d{Transformation: &Transformation{
			Rotation:    prim.Vec3{X: 0.5, Y: -0.25, Z: 1.0},
			Translation: prim.Vec3{X: 10, Y: 20, Z: 30},
		}}
		var buf bytes.Buffer
		require.NoError(t, writeObject3d(iox.NewWriter(&buf), object3d))

		out, err := readObject3d(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.NotNil(t, out.Transformation)
		require.Equal(t, object3d.Transformation.Rotation, out.Transformation.Rotation)
		// the matrix matched the derived one, so no override is kept
		require.Nil(t, out.Transformation.Matrix)
	})

	t.Run("tampered matrix preserved", func(t *testing.T) {
		tampered := prim.Matrix{1, 0, 0, 0, 1, 0, 0, 0, 0.5}
		object3d := &Object3d{Transformation: &Transformation{
			Rotation: prim.Vec3{X: 0.5},
			Matrix:   &tampered,
		}}
		var buf bytes.Buffer
		require.NoError(t, writeObject3d(iox.NewWriter(&buf), object3d))

		out, err := readObject3d(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.NotNil(t, out.Transformation.Matrix)
		require.Equal(t, tampered, *out.Transformation.Matrix)

		// writing back reproduces the tampered matrix verbatim
		var second bytes.Buffer
		require.NoError(t, writeObject3d(iox.NewWriter(&second), out))
		require.Equal(t, buf.Bytes(), second.Bytes())
	})
}

func TestWorldRoundtrip(t *testing.T) {
	world := &World{
		Area:                Area{Left: 0, Top: 0, Right: 256, Bottom: 256},
		VirtPartitionXCount: 1,
		VirtPartitionYCount: 1,
		AreaPartitionPtr:    0x100,
		VirtPartitionPtr:    0x200,
		WorldChildrenPtr:    0x300,
		WorldChildValue:     5,
		WorldLightsPtr:      0x400,
		Partitions: [][]Partition{{{
			X:     0,
			Z:     256,
			Nodes: []uint32{3, 4},
			Unk:   prim.Vec3{X: -50, Y: 100, Z: 25},
			Ptr:   0x500,
		}}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeWorld(iox.NewWriter(&buf), world))

	out, err := readWorld(iox.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Equal(t, world, out)

	var second bytes.Buffer
	require.NoError(t, writeWorld(iox.NewWriter(&second), out))
	require.Equal(t, buf.Bytes(), second.Bytes())
}

func TestSingletonDataRoundtrips(t *testing.T) {
	t.Run("camera", func(t *testing.T) {
		camera := &Camera{ClipNear: 0.1, ClipFar: 5000, FovH: 1.2, FovV: 0.9}
		var buf bytes.Buffer
		require.NoError(t, writeCamera(iox.NewWriter(&buf), camera))
		require.Len(t, buf.Bytes(), cameraSize)
		out, err := readCamera(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.Equal(t, camera, out)
	})

	t.Run("window", func(t *testing.T) {
		window := &Window{ResolutionX: 320, ResolutionY: 200}
		var buf bytes.Buffer
		require.NoError(t, writeWindow(iox.NewWriter(&buf), window))
		require.Len(t, buf.Bytes(), windowSize)
		out, err := readWindow(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.Equal(t, window, out)
	})

	t.Run("display", func(t *testing.T) {
		display := &Display{ResolutionX: 640, ResolutionY: 400, ClearColor: prim.Color{R: 0.1, G: 0.2, B: 0.3}}
		var buf bytes.Buffer
		require.NoError(t, writeDisplay(iox.NewWriter(&buf), display))
		out, err := readDisplay(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.Equal(t, display, out)
	})

	t.Run("light", func(t *testing.T) {
		light := &Light{
			Direction: prim.Vec3{X: 0.5, Y: -1, Z: 0.25},
			Diffuse:   1.0,
			Ambient:   0.4,
			Color:     prim.Color{R: 1, G: 1, B: 1},
			Range:     prim.Range{Min: 2, Max: 1000},
			ParentPtr: 0x1234,
		}
		var buf bytes.Buffer
		require.NoError(t, writeLight(iox.NewWriter(&buf), light))
		out, err := readLight(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.Equal(t, light, out)
	})

	t.Run("lod", func(t *testing.T) {
		lod := &Lod{Level: true, RangeNearSq: 100, RangeFar: 500, Unk60: 1.5, Unk72: true, Unk76: 0x99}
		var buf bytes.Buffer
		require.NoError(t, writeLod(iox.NewWriter(&buf), lod))
		out, err := readLod(iox.NewReader(bytes.NewReader(buf.Bytes())))
		require.NoError(t, err)
		require.Equal(t, lod, out)
	})
}
