package gamez

import (
	"github.com/mechres/zbd/assert"
	"github.com/mechres/zbd/errs"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/nodes"
)

// GamezNode is one scene node plus the u32 that follows its header slot:
// the node's data offset for most classes, or the parent reference for
// empty nodes (which have no data block).
type GamezNode struct {
	nodes.Node
	// EmptyParent is the slot value for empty nodes.
	EmptyParent uint32 `json:"empty_parent,omitempty"`
}

// zeroSlotTerminator is the chain value of the last zero slot.
const zeroSlotTerminator uint32 = 0xFFFFFF

// sizeNodeData returns the byte size of one node's data block plus its
// parent/child index arrays.
func sizeNodeData(node *nodes.Node) uint32 {
	var size uint32
	switch node.Info.Class {
	case nodes.ClassCamera:
		size = 136
	case nodes.ClassWindow:
		size = 248
	case nodes.ClassDisplay:
		size = 28
	case nodes.ClassObject3d:
		size = 144
	case nodes.ClassLod:
		size = 80
	case nodes.ClassLight:
		size = 96
	case nodes.ClassWorld:
		world := node.World
		partitionCount := world.VirtPartitionXCount * world.VirtPartitionYCount
		size = 188 + 4 + 72*partitionCount
		for _, row := range world.Partitions {
			for i := range row {
				size += 4 * uint32(len(row[i].Nodes))
			}
		}
	}
	if node.Info.HasParent {
		size += 4
	}
	size += 4 * node.Info.ChildrenCount
	return size
}

// readNodes reads the node section: array slots first (used headers, then
// zero-filled padding chained by index), then each node's data block with
// its index arrays.
func readNodes(r *iox.Reader, arraySize uint32) ([]GamezNode, error) {
	infoSize := nodes.NodeInfoSize(nodes.VariantMW)
	endOffset := r.Offset + (infoSize+4)*arraySize

	type slot struct {
		node GamezNode
		pos  uint32
		// the u32 following the header
		value uint32
	}
	var slots []slot
	actualCount := arraySize
	for i := uint32(0); i < arraySize; i++ {
		pos := r.Offset
		// a zero-filled slot marks the end of the used nodes; the declared
		// node count is wildly inaccurate for some files, so a slot counts
		// as used when any byte of its header is non-zero
		peek, err := r.ReadBytes(int(infoSize))
		if err != nil {
			return nil, err
		}
		used := false
		for _, b := range peek {
			if b != 0 {
				used = true
				break
			}
		}
		if !used {
			value, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			expected := i + 1
			if expected == arraySize {
				expected = zeroSlotTerminator
			}
			if err := assert.Equal("node zero index", expected, value, r.Prev); err != nil {
				return nil, err
			}
			actualCount = i + 1
			break
		}

		info, err := parseNodeInfo(peek, pos)
		if err != nil {
			return nil, err
		}
		if err := nodes.AssertNodeInfo(&info, pos); err != nil {
			return nil, err
		}
		value, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		node := GamezNode{Node: nodes.Node{Info: info}}
		switch info.Class {
		case nodes.ClassWorld:
			if err := assert.Equal("world node position", uint32(0), i, pos); err != nil {
				return nil, err
			}
		case nodes.ClassWindow:
			if err := assert.Equal("window node position", uint32(1), i, pos); err != nil {
				return nil, err
			}
		case nodes.ClassCamera:
			if err := assert.Equal("camera node position", uint32(2), i, pos); err != nil {
				return nil, err
			}
		case nodes.ClassEmpty:
			if err := assert.Between("empty node parent", uint32(4), arraySize, value, r.Prev); err != nil {
				return nil, err
			}
			node.EmptyParent = value
		}
		slots = append(slots, slot{node: node, pos: pos, value: value})
	}

	for i := actualCount; i < arraySize; i++ {
		if err := nodes.ReadNodeInfoZero(r, nodes.VariantMW); err != nil {
			return nil, err
		}
		value, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		expected := i + 1
		if expected == arraySize {
			expected = zeroSlotTerminator
		}
		if err := assert.Equal("node zero index", expected, value, r.Prev); err != nil {
			return nil, err
		}
	}
	if err := assert.Equal("node info end", endOffset, r.Offset, r.Offset); err != nil {
		return nil, err
	}

	result := make([]GamezNode, 0, len(slots))
	for i := range slots {
		s := &slots[i]
		if s.node.Info.Class != nodes.ClassEmpty {
			// the slot value is the node's data offset
			if err := assert.Equal("node data offset", s.value, r.Offset, r.Offset); err != nil {
				return nil, err
			}
			if err := nodes.ReadNodeData(r, &s.node.Node); err != nil {
				return nil, err
			}
			if err := nodes.ReadNodeIndices(r, &s.node.Node); err != nil {
				return nil, err
			}
		}
		result = append(result, s.node)
	}
	if err := r.AssertEnd(); err != nil {
		return nil, err
	}
	if err := assertAreaPartitions(result, r.Offset); err != nil {
		return nil, err
	}
	return result, nil
}

// parseNodeInfo re-parses a header from an already-read buffer, keeping
// the error offsets anchored at the slot position.
func parseNodeInfo(data []byte, pos uint32) (nodes.NodeInfo, error) {
	sub := iox.NewReader(newSliceReader(data))
	sub.Offset = pos
	return nodes.ReadNodeInfo(sub, nodes.VariantMW)
}

type sliceReader struct {
	data []byte
}

func newSliceReader(data []byte) *sliceReader {
	return &sliceReader{data: data}
}

func (s *sliceReader) Read(p []byte) (int, error) {
	n := copy(p, s.data)
	s.data = s.data[n:]
	if n == 0 {
		return 0, errs.ErrTruncated
	}
	return n, nil
}

// assertAreaPartitions checks every node's partition cell against the
// world's grid.
func assertAreaPartitions(gamezNodes []GamezNode, offset uint32) error {
	if len(gamezNodes) == 0 || gamezNodes[0].World == nil {
		return errs.New("world node", "to be first", offset)
	}
	world := gamezNodes[0].World
	xCount := int32(world.VirtPartitionXCount)
	yCount := int32(world.VirtPartitionYCount)
	for i := range gamezNodes {
		ap := gamezNodes[i].Info.AreaPartition
		if ap == nil {
			continue
		}
		if err := assert.Less("node partition x", xCount, ap.X, offset); err != nil {
			return err
		}
		if err := assert.Less("node partition z", yCount, ap.Z, offset); err != nil {
			return err
		}
	}
	return nil
}

func writeNodes(w *iox.Writer, gamezNodes []GamezNode, arraySize uint32, sectionOffset uint32) error {
	infoSize := nodes.NodeInfoSize(nodes.VariantMW)
	offset := sectionOffset + (infoSize+4)*arraySize
	for i := range gamezNodes {
		node := &gamezNodes[i]
		if err := nodes.WriteNodeInfo(w, nodes.VariantMW, &node.Info); err != nil {
			return err
		}
		value := offset
		if node.Info.Class == nodes.ClassEmpty {
			value = node.EmptyParent
		}
		if err := w.WriteU32(value); err != nil {
			return err
		}
		offset += sizeNodeData(&node.Node)
	}
	for i := uint32(len(gamezNodes)); i < arraySize; i++ {
		if err := nodes.WriteNodeInfoZero(w, nodes.VariantMW); err != nil {
			return err
		}
		value := i + 1
		if value == arraySize {
			value = zeroSlotTerminator
		}
		if err := w.WriteU32(value); err != nil {
			return err
		}
	}
	for i := range gamezNodes {
		node := &gamezNodes[i]
		if node.Info.Class == nodes.ClassEmpty {
			continue
		}
		if err := nodes.WriteNodeData(w, &node.Node); err != nil {
			return err
		}
		if err := nodes.WriteNodeIndices(w, &node.Node); err != nil {
			return err
		}
	}
	return nil
}
