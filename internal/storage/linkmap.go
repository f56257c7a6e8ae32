package storage

import (
	"bytes"
	"context"
	"errors"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

const (
	linkMetaPrefix = byte(0x00)
	linkNodePrefix = byte(0x01)
)

// Pair is a key with its value.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// LinkedMap is a map whose keys are kept in ascending order by a doubly linked
// list persisted next to the values. Head is the highest key and tail the
// lowest. Inserting at an arbitrary rank costs a walk back from the head, which
// is cheap when keys mostly arrive in ascending order.
type LinkedMap[K, V any] struct {
	kc collcodec.KeyCodec[K]
	vc collcodec.ValueCodec[V]

	meta  collections.Item[LinkedMapMeta]
	nodes collections.Map[[]byte, linkNode]
}

// NewLinkedMap registers a linked map under prefix in sb. Nodes are keyed by
// the encoded key so links can be followed without decoding.
func NewLinkedMap[K, V any](
	sb *collections.SchemaBuilder, prefix collections.Prefix, name string,
	kc collcodec.KeyCodec[K], vc collcodec.ValueCodec[V],
) *LinkedMap[K, V] {
	return &LinkedMap[K, V]{
		kc:    kc,
		vc:    vc,
		meta:  collections.NewItem(sb, subPrefix(prefix, linkMetaPrefix), name+"_meta", linkMetaValue{}),
		nodes: collections.NewMap(sb, subPrefix(prefix, linkNodePrefix), name+"_nodes", collections.BytesKey, linkNodeValue{}),
	}
}

// Meta returns the persisted head, tail and length.
func (lm *LinkedMap[K, V]) Meta(ctx context.Context) (LinkedMapMeta, error) {
	m, err := lm.meta.Get(ctx)
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, collections.ErrNotFound):
		return LinkedMapMeta{}, nil
	default:
		return LinkedMapMeta{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "linked map metadata: %v", err)
	}
}

func (lm *LinkedMap[K, V]) node(ctx context.Context, kbz []byte) (linkNode, bool, error) {
	n, err := lm.nodes.Get(ctx, kbz)
	switch {
	case err == nil:
		return n, true, nil
	case errors.Is(err, collections.ErrNotFound):
		return linkNode{}, false, nil
	default:
		return linkNode{}, false, errorsmod.Wrapf(ibcerrors.ErrDecode, "linked map node %X: %v", kbz, err)
	}
}

func (lm *LinkedMap[K, V]) mustNode(ctx context.Context, kbz []byte) (linkNode, error) {
	n, found, err := lm.node(ctx, kbz)
	if err != nil {
		return n, err
	}
	if !found {
		return n, errorsmod.Wrapf(ibcerrors.ErrLogic, "dangling link to %X", kbz)
	}
	return n, nil
}

func (lm *LinkedMap[K, V]) pair(kbz []byte, n linkNode) (Pair[K, V], error) {
	key, err := decodeKey(lm.kc, kbz)
	if err != nil {
		return Pair[K, V]{}, err
	}
	value, err := lm.vc.Decode(n.Value)
	if err != nil {
		return Pair[K, V]{}, errorsmod.Wrap(ibcerrors.ErrDecode, err.Error())
	}
	return Pair[K, V]{Key: key, Value: value}, nil
}

// Len returns the number of keys.
func (lm *LinkedMap[K, V]) Len(ctx context.Context) (uint64, error) {
	m, err := lm.Meta(ctx)
	return m.Length, err
}

// Has reports whether key is present.
func (lm *LinkedMap[K, V]) Has(ctx context.Context, key K) (bool, error) {
	kbz, err := encodeKey(lm.kc, key)
	if err != nil {
		return false, err
	}
	return lm.nodes.Has(ctx, kbz)
}

// Get returns the value of key.
func (lm *LinkedMap[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	kbz, err := encodeKey(lm.kc, key)
	if err != nil {
		return zero, false, err
	}
	n, found, err := lm.node(ctx, kbz)
	if err != nil || !found {
		return zero, false, err
	}
	value, err := lm.vc.Decode(n.Value)
	if err != nil {
		return zero, false, errorsmod.Wrap(ibcerrors.ErrDecode, err.Error())
	}
	return value, true, nil
}

// Insert stores value under key, splicing a new key into its ordered position.
// The position is found walking back from the head along pre links. An existing
// key keeps its position and has its value overwritten.
func (lm *LinkedMap[K, V]) Insert(ctx context.Context, key K, value V) error {
	vbz, err := lm.vc.Encode(value)
	if err != nil {
		return err
	}
	kbz, err := encodeKey(lm.kc, key)
	if err != nil {
		return err
	}

	existing, found, err := lm.node(ctx, kbz)
	if err != nil {
		return err
	}
	if found {
		existing.Value = vbz
		return lm.nodes.Set(ctx, kbz, existing)
	}

	m, err := lm.Meta(ctx)
	if err != nil {
		return err
	}

	// pre is the greatest key below the new one, next the smallest above it.
	var pre, next []byte
	pre = m.Head
	for len(pre) > 0 && bytes.Compare(kbz, pre) <= 0 {
		n, err := lm.mustNode(ctx, pre)
		if err != nil {
			return err
		}
		next, pre = pre, n.Pre
	}

	if err := lm.nodes.Set(ctx, kbz, linkNode{Pre: pre, Next: next, Value: vbz}); err != nil {
		return err
	}

	if len(pre) > 0 {
		if err := lm.relink(ctx, pre, func(n *linkNode) { n.Next = kbz }); err != nil {
			return err
		}
	} else {
		m.Tail = kbz
	}

	if len(next) > 0 {
		if err := lm.relink(ctx, next, func(n *linkNode) { n.Pre = kbz }); err != nil {
			return err
		}
	} else {
		m.Head = kbz
	}

	m.Length++
	return lm.meta.Set(ctx, m)
}

func (lm *LinkedMap[K, V]) relink(ctx context.Context, kbz []byte, update func(*linkNode)) error {
	n, err := lm.mustNode(ctx, kbz)
	if err != nil {
		return err
	}
	update(&n)
	return lm.nodes.Set(ctx, kbz, n)
}

// Remove unlinks key and deletes its value. It returns false when the key is absent.
func (lm *LinkedMap[K, V]) Remove(ctx context.Context, key K) (bool, error) {
	kbz, err := encodeKey(lm.kc, key)
	if err != nil {
		return false, err
	}
	return lm.remove(ctx, kbz)
}

func (lm *LinkedMap[K, V]) remove(ctx context.Context, kbz []byte) (bool, error) {
	n, found, err := lm.node(ctx, kbz)
	if err != nil || !found {
		return false, err
	}
	m, err := lm.Meta(ctx)
	if err != nil {
		return false, err
	}

	if len(n.Pre) > 0 {
		if err := lm.relink(ctx, n.Pre, func(p *linkNode) { p.Next = n.Next }); err != nil {
			return false, err
		}
	} else {
		m.Tail = n.Next
	}

	if len(n.Next) > 0 {
		if err := lm.relink(ctx, n.Next, func(p *linkNode) { p.Pre = n.Pre }); err != nil {
			return false, err
		}
	} else {
		m.Head = n.Pre
	}

	if err := lm.nodes.Remove(ctx, kbz); err != nil {
		return false, err
	}
	m.Length--
	return true, lm.meta.Set(ctx, m)
}

func (lm *LinkedMap[K, V]) end(ctx context.Context, head bool) (Pair[K, V], bool, error) {
	m, err := lm.Meta(ctx)
	if err != nil || m.Length == 0 {
		return Pair[K, V]{}, false, err
	}
	kbz := m.Tail
	if head {
		kbz = m.Head
	}
	n, err := lm.mustNode(ctx, kbz)
	if err != nil {
		return Pair[K, V]{}, false, err
	}
	p, err := lm.pair(kbz, n)
	return p, err == nil, err
}

// Head returns the entry with the highest key.
func (lm *LinkedMap[K, V]) Head(ctx context.Context) (Pair[K, V], bool, error) {
	return lm.end(ctx, true)
}

// Tail returns the entry with the lowest key.
func (lm *LinkedMap[K, V]) Tail(ctx context.Context) (Pair[K, V], bool, error) {
	return lm.end(ctx, false)
}

func (lm *LinkedMap[K, V]) neighbour(ctx context.Context, key K, previous bool) (Pair[K, V], bool, error) {
	kbz, err := encodeKey(lm.kc, key)
	if err != nil {
		return Pair[K, V]{}, false, err
	}
	n, found, err := lm.node(ctx, kbz)
	if err != nil {
		return Pair[K, V]{}, false, err
	}
	if !found {
		return Pair[K, V]{}, false, errorsmod.Wrapf(ibcerrors.ErrNotFound, "key %s", lm.kc.Stringify(key))
	}

	other := n.Next
	if previous {
		other = n.Pre
	}
	if len(other) == 0 {
		return Pair[K, V]{}, false, nil
	}
	on, err := lm.mustNode(ctx, other)
	if err != nil {
		return Pair[K, V]{}, false, err
	}
	p, err := lm.pair(other, on)
	return p, err == nil, err
}

// GetPrevious returns the entry right below a stored key.
func (lm *LinkedMap[K, V]) GetPrevious(ctx context.Context, key K) (Pair[K, V], bool, error) {
	return lm.neighbour(ctx, key, true)
}

// GetNext returns the entry right above a stored key.
func (lm *LinkedMap[K, V]) GetNext(ctx context.Context, key K) (Pair[K, V], bool, error) {
	return lm.neighbour(ctx, key, false)
}

func (lm *LinkedMap[K, V]) follow(ctx context.Context, from []byte, forward bool, cb func(Pair[K, V]) bool) error {
	for kbz := from; len(kbz) > 0; {
		n, err := lm.mustNode(ctx, kbz)
		if err != nil {
			return err
		}
		p, err := lm.pair(kbz, n)
		if err != nil {
			return err
		}
		if cb(p) {
			return nil
		}
		if forward {
			kbz = n.Next
		} else {
			kbz = n.Pre
		}
	}
	return nil
}

// Iterate walks the entries from tail to head until cb returns true.
func (lm *LinkedMap[K, V]) Iterate(ctx context.Context, cb func(Pair[K, V]) (stop bool)) error {
	m, err := lm.Meta(ctx)
	if err != nil {
		return err
	}
	return lm.follow(ctx, m.Tail, true, cb)
}

// ReverseIterate walks the entries from head to tail until cb returns true.
func (lm *LinkedMap[K, V]) ReverseIterate(ctx context.Context, cb func(Pair[K, V]) (stop bool)) error {
	m, err := lm.Meta(ctx)
	if err != nil {
		return err
	}
	return lm.follow(ctx, m.Head, false, cb)
}

// Keys returns every key in ascending order.
func (lm *LinkedMap[K, V]) Keys(ctx context.Context) ([]K, error) {
	var keys []K
	err := lm.Iterate(ctx, func(p Pair[K, V]) bool {
		keys = append(keys, p.Key)
		return false
	})
	return keys, err
}

// RemoveUpTo removes keys from the tail while they are not greater than bound.
// It stops when budget is exhausted; calling again continues from the new tail.
func (lm *LinkedMap[K, V]) RemoveUpTo(ctx context.Context, bound K, budget Budget) (Progress, error) {
	bbz, err := encodeKey(lm.kc, bound)
	if err != nil {
		return Progress{Status: StatusFailed}, err
	}

	var processed uint64
	for {
		m, err := lm.Meta(ctx)
		if err != nil {
			return Progress{Status: StatusFailed}, err
		}
		if m.Length == 0 || bytes.Compare(m.Tail, bbz) > 0 {
			break
		}
		if !budget.Allow() {
			return Progress{Status: StatusNeedsContinuation, Processed: processed}, nil
		}
		if _, err := lm.remove(ctx, m.Tail); err != nil {
			return Progress{Status: StatusFailed}, err
		}
		processed++
	}
	return Progress{Status: StatusCompleted, Processed: processed}, nil
}
