package protocol

import (
	"errors"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// ErrUnknownPatchOp is returned when a patch list contains an op this
// decoder does not know. Patch lists are order-dependent, so an unknown op
// cannot be skipped.
var ErrUnknownPatchOp = errors.New("protocol: unknown patch op")

// PatchesFrame represents a batch of patches with sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []vdom.Patch
}

// EncodePatches encodes a patches frame to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame using the provided encoder.
//
// Wire format:
//
//	[Seq: varint][Count: varint]{[Op: byte][Path] op-specific...}
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))

	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

// encodePatch encodes a single patch.
func encodePatch(e *Encoder, p *vdom.Patch) {
	e.WriteByte(byte(p.Op))
	e.WritePath(p.Path)

	switch p.Op {
	case vdom.PatchAppendChildren:
		encodeChildren(e, p.Nodes)

	case vdom.PatchInsertBefore:
		e.WriteString(p.Anchor.Key)
		e.WriteUvarint(uint64(p.Anchor.Index))
		encodeChildren(e, p.Nodes)

	case vdom.PatchRemoveNode:
		// No additional data (the path is sufficient)

	case vdom.PatchReplaceNode:
		EncodeVNodeTo(e, p.Node)

	case vdom.PatchMoveNode:
		e.WriteUvarint(uint64(p.From))
		e.WriteUvarint(uint64(p.To))
		e.WriteString(p.Key)

	case vdom.PatchAddAttributes:
		e.WriteAttrs(p.Attrs)

	case vdom.PatchRemoveAttributes:
		e.WriteStrings(p.Names)

	case vdom.PatchChangeText:
		e.WriteString(p.Text)
	}
}

// DecodePatches decodes a patches frame from bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	return DecodePatchesFrom(d)
}

// DecodePatchesFrom decodes a patches frame from a decoder.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	// SECURITY: Use ReadCollectionCount to prevent DoS
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]vdom.Patch, count)
	for i := range patches {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}

	return &PatchesFrame{
		Seq:     seq,
		Patches: patches,
	}, nil
}

// decodePatch decodes a single patch.
func decodePatch(d *Decoder, p *vdom.Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = vdom.PatchOp(opByte)

	p.Path, err = d.ReadPath()
	if err != nil {
		return err
	}

	switch p.Op {
	case vdom.PatchAppendChildren:
		p.Nodes, err = decodeNodes(d)

	case vdom.PatchInsertBefore:
		p.Anchor.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		p.Anchor.Index, err = d.ReadIndex()
		if err != nil {
			return err
		}
		p.Nodes, err = decodeNodes(d)

	case vdom.PatchRemoveNode:
		// No additional data

	case vdom.PatchReplaceNode:
		p.Node, err = DecodeVNodeFrom(d)
		if err == nil && p.Node == nil {
			err = ErrInvalidNodeKind
		}

	case vdom.PatchMoveNode:
		p.From, err = d.ReadIndex()
		if err != nil {
			return err
		}
		p.To, err = d.ReadIndex()
		if err != nil {
			return err
		}
		p.Key, err = d.ReadString()

	case vdom.PatchAddAttributes:
		p.Attrs, err = d.ReadAttrs()

	case vdom.PatchRemoveAttributes:
		p.Names, err = d.ReadStrings()

	case vdom.PatchChangeText:
		p.Text, err = d.ReadString()

	default:
		return ErrUnknownPatchOp
	}

	return err
}
