package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"

	"github.com/ibcstore/ibc-store/internal/codec"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// encodeKey encodes key on its own. Key codecs used by the ordered
// collections must preserve order, so encodings compare like their keys.
func encodeKey[K any](kc collcodec.KeyCodec[K], key K) ([]byte, error) {
	bz := make([]byte, kc.Size(key))
	n, err := kc.Encode(bz, key)
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "encode key %s: %v", kc.Stringify(key), err)
	}
	return bz[:n], nil
}

func decodeKey[K any](kc collcodec.KeyCodec[K], bz []byte) (K, error) {
	n, key, err := kc.Decode(bz)
	if err != nil {
		return key, errorsmod.Wrapf(ibcerrors.ErrDecode, "key %X: %v", bz, err)
	}
	if n != len(bz) {
		return key, errorsmod.Wrapf(ibcerrors.ErrDecode, "key %X: %d trailing bytes", bz, len(bz)-n)
	}
	return key, nil
}

// subPrefix appends b to the collection prefix p.
func subPrefix(p collections.Prefix, b byte) collections.Prefix {
	return collections.NewPrefix(append(append([]byte{}, p.Bytes()...), b))
}

// QueueMeta is the persisted index range and retention bound of a Queue.
type QueueMeta struct {
	Start     uint64 `json:"start_index"`
	End       uint64 `json:"end_index"`
	MaxLength uint64 `json:"max_length"`
}

func (m QueueMeta) len() uint64 {
	if m.Start == 0 {
		return 0
	}
	return m.End - m.Start + 1
}

// queueMetaValue stores QueueMeta as three big endian uint64.
type queueMetaValue struct{}

func (queueMetaValue) Encode(m QueueMeta) ([]byte, error) {
	bz := make([]byte, 0, 24)
	bz = binary.BigEndian.AppendUint64(bz, m.Start)
	bz = binary.BigEndian.AppendUint64(bz, m.End)
	return binary.BigEndian.AppendUint64(bz, m.MaxLength), nil
}

func (queueMetaValue) Decode(bz []byte) (QueueMeta, error) {
	if len(bz) != 24 {
		return QueueMeta{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "queue metadata of length %d", len(bz))
	}
	return QueueMeta{
		Start:     binary.BigEndian.Uint64(bz[0:8]),
		End:       binary.BigEndian.Uint64(bz[8:16]),
		MaxLength: binary.BigEndian.Uint64(bz[16:24]),
	}, nil
}

func (queueMetaValue) EncodeJSON(m QueueMeta) ([]byte, error) { return json.Marshal(m) }

func (queueMetaValue) DecodeJSON(bz []byte) (QueueMeta, error) {
	var m QueueMeta
	err := json.Unmarshal(bz, &m)
	return m, err
}

func (queueMetaValue) Stringify(m QueueMeta) string {
	return fmt.Sprintf("[%d, %d] max %d", m.Start, m.End, m.MaxLength)
}

func (queueMetaValue) ValueType() string { return "ibcstore/queue_meta" }

// slot is the content of a queue index slot. Value and present are only
// meaningful for inline placement.
type slot struct {
	Key     []byte `json:"key"`
	Present bool   `json:"present"`
	Value   []byte `json:"value,omitempty"`
}

// slotValue encodes a slot as uvarint(len(key)) | key | presence | value, or
// as the bare key when values live outside the slot.
type slotValue struct {
	keyOnly bool
}

func (c slotValue) Encode(s slot) ([]byte, error) {
	if c.keyOnly {
		return s.Key, nil
	}
	bz := binary.AppendUvarint(nil, uint64(len(s.Key)))
	bz = append(bz, s.Key...)
	if !s.Present {
		return append(bz, 0), nil
	}
	bz = append(bz, 1)
	return append(bz, s.Value...), nil
}

func (c slotValue) Decode(bz []byte) (slot, error) {
	if c.keyOnly {
		return slot{Key: bz, Present: true}, nil
	}
	klen, n := binary.Uvarint(bz)
	if n <= 0 || uint64(len(bz)-n) < klen+1 {
		return slot{}, errorsmod.Wrap(ibcerrors.ErrDecode, "corrupt queue slot")
	}
	bz = bz[n:]
	return slot{Key: bz[:klen], Present: bz[klen] == 1, Value: bz[klen+1:]}, nil
}

func (slotValue) EncodeJSON(s slot) ([]byte, error) { return json.Marshal(s) }

func (slotValue) DecodeJSON(bz []byte) (slot, error) {
	var s slot
	err := json.Unmarshal(bz, &s)
	return s, err
}

func (slotValue) Stringify(s slot) string { return fmt.Sprintf("%X", s.Key) }

func (slotValue) ValueType() string { return "ibcstore/queue_slot" }

// LinkedMapMeta is the persisted head, tail and length of a LinkedMap. Head
// and tail are encoded keys, empty when the map is empty.
type LinkedMapMeta struct {
	Head   []byte `json:"head"`
	Tail   []byte `json:"tail"`
	Length uint64 `json:"length"`
}

type linkMetaValue struct{}

func (linkMetaValue) Encode(m LinkedMapMeta) ([]byte, error) {
	return codec.NewEncoder().Bytes(1, m.Head).Bytes(2, m.Tail).Uint64(3, m.Length).Encoded(), nil
}

func (linkMetaValue) Decode(bz []byte) (LinkedMapMeta, error) {
	var m LinkedMapMeta
	err := codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Bytes(&m.Head)
		case 2:
			return f.Bytes(&m.Tail)
		case 3:
			return f.Uint64(&m.Length)
		}
		return nil
	})
	if err != nil {
		return LinkedMapMeta{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "linked map metadata: %v", err)
	}
	return m, nil
}

func (linkMetaValue) EncodeJSON(m LinkedMapMeta) ([]byte, error) { return json.Marshal(m) }

func (linkMetaValue) DecodeJSON(bz []byte) (LinkedMapMeta, error) {
	var m LinkedMapMeta
	err := json.Unmarshal(bz, &m)
	return m, err
}

func (linkMetaValue) Stringify(m LinkedMapMeta) string {
	return fmt.Sprintf("tail %X head %X length %d", m.Tail, m.Head, m.Length)
}

func (linkMetaValue) ValueType() string { return "ibcstore/linked_map_meta" }

// linkNode is the persisted form of one key. Pre and next are encoded keys,
// empty when there is no neighbour on that side.
type linkNode struct {
	Pre   []byte `json:"pre"`
	Next  []byte `json:"next"`
	Value []byte `json:"value"`
}

type linkNodeValue struct{}

func (linkNodeValue) Encode(n linkNode) ([]byte, error) {
	return codec.NewEncoder().Bytes(1, n.Pre).Bytes(2, n.Next).Message(3, n.Value).Encoded(), nil
}

func (linkNodeValue) Decode(bz []byte) (linkNode, error) {
	var n linkNode
	err := codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Bytes(&n.Pre)
		case 2:
			return f.Bytes(&n.Next)
		case 3:
			return f.Bytes(&n.Value)
		}
		return nil
	})
	if err != nil {
		return linkNode{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "linked map node: %v", err)
	}
	return n, nil
}

func (linkNodeValue) EncodeJSON(n linkNode) ([]byte, error) { return json.Marshal(n) }

func (linkNodeValue) DecodeJSON(bz []byte) (linkNode, error) {
	var n linkNode
	err := json.Unmarshal(bz, &n)
	return n, err
}

func (linkNodeValue) Stringify(n linkNode) string {
	return fmt.Sprintf("pre %X next %X", n.Pre, n.Next)
}

func (linkNodeValue) ValueType() string { return "ibcstore/linked_map_node" }
