package storage

import (
	"bytes"
	"context"
	"errors"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

// Sub-prefixes of a queue inside its collection prefix.
const (
	queueMetaPrefix   = byte(0x00)
	queueSlotPrefix   = byte(0x01)
	queueValuesPrefix = byte(0x02)
)

// Entry is a single element of a Queue.
type Entry[K, V any] struct {
	Index uint64
	Key   K
	Value V
}

// valueStore holds encoded values outside of the index slots.
type valueStore[K any] interface {
	get(ctx context.Context, key K) ([]byte, error)
	set(ctx context.Context, key K, bz []byte) error
	remove(ctx context.Context, key K) error
}

// mapValues keeps values in a collections map next to the slots.
type mapValues[K any] struct {
	m collections.Map[K, []byte]
}

func (v mapValues[K]) get(ctx context.Context, key K) ([]byte, error) {
	bz, err := v.m.Get(ctx, key)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, nil
	}
	return bz, err
}

func (v mapValues[K]) set(ctx context.Context, key K, bz []byte) error {
	return v.m.Set(ctx, key, bz)
}

func (v mapValues[K]) remove(ctx context.Context, key K) error {
	return v.m.Remove(ctx, key)
}

// pathValues keeps values at caller defined keys of a store, such as the
// canonical paths counterparties prove.
type pathValues[K any] struct {
	service corestore.KVStoreService
	path    func(K) []byte
}

func (v pathValues[K]) get(ctx context.Context, key K) ([]byte, error) {
	return v.service.OpenKVStore(ctx).Get(v.path(key))
}

func (v pathValues[K]) set(ctx context.Context, key K, bz []byte) error {
	return v.service.OpenKVStore(ctx).Set(v.path(key), bz)
}

func (v pathValues[K]) remove(ctx context.Context, key K) error {
	return v.service.OpenKVStore(ctx).Delete(v.path(key))
}

// QueueOption configures a Queue.
type QueueOption[K any] func(*queueConfig[K])

type queueConfig[K any] struct {
	byKey bool
	path  *pathValues[K]
}

// WithValuesByKey keeps values under 0x02|key inside the queue prefix.
func WithValuesByKey[K any]() QueueOption[K] {
	return func(c *queueConfig[K]) {
		c.byKey = true
	}
}

// WithValuePath keeps values in the store of service under path(key).
func WithValuePath[K any](service corestore.KVStoreService, path func(K) []byte) QueueOption[K] {
	return func(c *queueConfig[K]) {
		c.byKey = true
		c.path = &pathValues[K]{service: service, path: path}
	}
}

// Queue is an indexed append-only log whose keys are strictly ascending. Entries
// occupy consecutive indices in [start, end]; an empty queue has start == end == 0.
// Key lookups use binary search over the index range, comparing encoded keys,
// so the key codec must preserve order.
type Queue[K, V any] struct {
	kc collcodec.KeyCodec[K]
	vc collcodec.ValueCodec[V]

	meta   collections.Item[QueueMeta]
	slots  collections.Map[uint64, slot]
	values valueStore[K] // nil for inline placement
}

// NewQueue registers a queue under prefix in sb. The metadata, index slots
// and by-key values use the sub-prefixes 0x00, 0x01 and 0x02.
func NewQueue[K, V any](
	sb *collections.SchemaBuilder, prefix collections.Prefix, name string,
	kc collcodec.KeyCodec[K], vc collcodec.ValueCodec[V], opts ...QueueOption[K],
) *Queue[K, V] {
	var cfg queueConfig[K]
	for _, opt := range opts {
		opt(&cfg)
	}

	q := &Queue[K, V]{
		kc:    kc,
		vc:    vc,
		meta:  collections.NewItem(sb, subPrefix(prefix, queueMetaPrefix), name+"_meta", queueMetaValue{}),
		slots: collections.NewMap(sb, subPrefix(prefix, queueSlotPrefix), name+"_slots", collections.Uint64Key, slotValue{keyOnly: cfg.byKey}),
	}
	switch {
	case cfg.path != nil:
		q.values = *cfg.path
	case cfg.byKey:
		q.values = mapValues[K]{m: collections.NewMap(sb, subPrefix(prefix, queueValuesPrefix), name+"_values", kc, collections.BytesValue)}
	}
	return q
}

// Meta returns the persisted index range and retention bound.
func (q *Queue[K, V]) Meta(ctx context.Context) (QueueMeta, error) {
	m, err := q.meta.Get(ctx)
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, collections.ErrNotFound):
		return QueueMeta{}, nil
	default:
		return QueueMeta{}, errorsmod.Wrapf(ibcerrors.ErrDecode, "queue metadata: %v", err)
	}
}

func (q *Queue[K, V]) setMeta(ctx context.Context, m QueueMeta) error {
	return q.meta.Set(ctx, m)
}

func (q *Queue[K, V]) readSlot(ctx context.Context, index uint64) (slot, bool, error) {
	s, err := q.slots.Get(ctx, index)
	switch {
	case err == nil:
		return s, true, nil
	case errors.Is(err, collections.ErrNotFound):
		return slot{}, false, nil
	default:
		return slot{}, false, errorsmod.Wrapf(ibcerrors.ErrDecode, "queue slot %d: %v", index, err)
	}
}

func (q *Queue[K, V]) keyBytesAt(ctx context.Context, index uint64) ([]byte, error) {
	s, ok, err := q.readSlot(ctx, index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorsmod.Wrapf(ibcerrors.ErrLogic, "missing queue slot %d", index)
	}
	return s.Key, nil
}

func (q *Queue[K, V]) keyAt(ctx context.Context, index uint64) (K, error) {
	kbz, err := q.keyBytesAt(ctx, index)
	if err != nil {
		var zero K
		return zero, err
	}
	return decodeKey(q.kc, kbz)
}

// entryAt loads and decodes the entry at index. The boolean is false when the
// slot is empty or its value was removed; the key is still reported for a
// slot whose value was removed.
func (q *Queue[K, V]) entryAt(ctx context.Context, index uint64) (Entry[K, V], bool, error) {
	s, ok, err := q.readSlot(ctx, index)
	if err != nil || !ok {
		return Entry[K, V]{}, false, err
	}

	key, err := decodeKey(q.kc, s.Key)
	if err != nil {
		return Entry[K, V]{}, false, err
	}

	vbz, present := s.Value, s.Present
	if q.values != nil {
		if vbz, err = q.values.get(ctx, key); err != nil {
			return Entry[K, V]{}, false, err
		}
		present = vbz != nil
	}
	if !present {
		return Entry[K, V]{Index: index, Key: key}, false, nil
	}

	value, err := q.vc.Decode(vbz)
	if err != nil {
		return Entry[K, V]{}, false, errorsmod.Wrapf(ibcerrors.ErrDecode, "queue value at index %d: %v", index, err)
	}
	return Entry[K, V]{Index: index, Key: key, Value: value}, true, nil
}

// deleteAt frees the slot at index together with any by-key value.
func (q *Queue[K, V]) deleteAt(ctx context.Context, index uint64) (Entry[K, V], error) {
	entry, _, err := q.entryAt(ctx, index)
	if err != nil {
		return Entry[K, V]{}, err
	}
	if q.values != nil && entry.Index == index {
		if err := q.values.remove(ctx, entry.Key); err != nil {
			return Entry[K, V]{}, err
		}
	}
	return entry, q.slots.Remove(ctx, index)
}

// Len returns the number of occupied index slots.
func (q *Queue[K, V]) Len(ctx context.Context) (uint64, error) {
	m, err := q.Meta(ctx)
	return m.len(), err
}

// IsEmpty reports whether the queue holds no slots.
func (q *Queue[K, V]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := q.Len(ctx)
	return n == 0, err
}

// PushBack appends key and value. The key must be greater than the key of the
// newest slot. When the queue grows beyond its bound the oldest entry is
// evicted and returned.
func (q *Queue[K, V]) PushBack(ctx context.Context, key K, value V) (*Entry[K, V], error) {
	m, err := q.Meta(ctx)
	if err != nil {
		return nil, err
	}

	kbz, err := encodeKey(q.kc, key)
	if err != nil {
		return nil, err
	}

	if m.len() > 0 {
		last, err := q.keyBytesAt(ctx, m.End)
		if err != nil {
			return nil, err
		}
		if bytes.Compare(kbz, last) <= 0 {
			lastKey, _ := decodeKey(q.kc, last)
			return nil, errorsmod.Wrapf(
				ibcerrors.ErrOrderingViolation,
				"key %s must be greater than latest key %s", q.kc.Stringify(key), q.kc.Stringify(lastKey),
			)
		}
		m.End++
	} else {
		m.Start, m.End = 1, 1
	}

	vbz, err := q.vc.Encode(value)
	if err != nil {
		return nil, err
	}
	if q.values != nil {
		if err := q.values.set(ctx, key, vbz); err != nil {
			return nil, err
		}
		err = q.slots.Set(ctx, m.End, slot{Key: kbz, Present: true})
	} else {
		err = q.slots.Set(ctx, m.End, slot{Key: kbz, Present: true, Value: vbz})
	}
	if err != nil {
		return nil, err
	}
	if err := q.setMeta(ctx, m); err != nil {
		return nil, err
	}

	if m.MaxLength == 0 || m.len() <= m.MaxLength {
		return nil, nil
	}

	evicted, found, err := q.PopFront(ctx)
	if err != nil || !found {
		return nil, err
	}
	return &evicted, nil
}

// PopFront removes the oldest slot. Removed values at the new front are trimmed
// as well. The returned boolean is false when the queue is empty.
func (q *Queue[K, V]) PopFront(ctx context.Context) (Entry[K, V], bool, error) {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return Entry[K, V]{}, false, err
	}

	entry, err := q.deleteAt(ctx, m.Start)
	if err != nil {
		return Entry[K, V]{}, false, err
	}
	m.Start++
	if err := q.trimFront(ctx, &m); err != nil {
		return Entry[K, V]{}, false, err
	}
	if err := q.setMeta(ctx, m); err != nil {
		return Entry[K, V]{}, false, err
	}
	return entry, true, nil
}

// trimFront drops removed slots at the front and resets an exhausted range.
func (q *Queue[K, V]) trimFront(ctx context.Context, m *QueueMeta) error {
	for m.Start <= m.End {
		_, present, err := q.entryAt(ctx, m.Start)
		if err != nil {
			return err
		}
		if present {
			return nil
		}
		if _, err := q.deleteAt(ctx, m.Start); err != nil {
			return err
		}
		m.Start++
	}
	m.Start, m.End = 0, 0
	return nil
}

// Front returns the oldest entry.
func (q *Queue[K, V]) Front(ctx context.Context) (Entry[K, V], bool, error) {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return Entry[K, V]{}, false, err
	}
	return q.entryAt(ctx, m.Start)
}

// Back returns the newest entry. Its value may have been removed, in which case
// the boolean is false while the key is still reported.
func (q *Queue[K, V]) Back(ctx context.Context) (Entry[K, V], bool, error) {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return Entry[K, V]{}, false, err
	}
	return q.entryAt(ctx, m.End)
}

// GetKeyByIndex returns the key stored at index.
func (q *Queue[K, V]) GetKeyByIndex(ctx context.Context, index uint64) (K, bool, error) {
	var zero K
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 || index < m.Start || index > m.End {
		return zero, false, err
	}
	key, err := q.keyAt(ctx, index)
	if err != nil {
		return zero, false, err
	}
	return key, true, nil
}

// GetValueByIndex returns the value stored at index.
func (q *Queue[K, V]) GetValueByIndex(ctx context.Context, index uint64) (V, bool, error) {
	var zero V
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 || index < m.Start || index > m.End {
		return zero, false, err
	}
	entry, found, err := q.entryAt(ctx, index)
	if err != nil || !found {
		return zero, false, err
	}
	return entry.Value, true, nil
}

// lowerBound returns the smallest index whose key is not less than key and
// whether that key equals key. The result is end+1 when every key is smaller.
func (q *Queue[K, V]) lowerBound(ctx context.Context, m QueueMeta, key K) (uint64, bool, error) {
	kbz, err := encodeKey(q.kc, key)
	if err != nil {
		return 0, false, err
	}

	lo, hi := m.Start, m.End+1
	for lo < hi {
		mid := lo + (hi-lo)/2
		k, err := q.keyBytesAt(ctx, mid)
		if err != nil {
			return 0, false, err
		}
		if bytes.Compare(k, kbz) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo > m.End {
		return lo, false, nil
	}
	k, err := q.keyBytesAt(ctx, lo)
	if err != nil {
		return 0, false, err
	}
	return lo, bytes.Equal(k, kbz), nil
}

// GetIndexOfKey returns the index holding key.
func (q *Queue[K, V]) GetIndexOfKey(ctx context.Context, key K) (uint64, bool, error) {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return 0, false, err
	}
	idx, exact, err := q.lowerBound(ctx, m, key)
	if err != nil || !exact {
		return 0, false, err
	}
	return idx, true, nil
}

// GetValueByKey returns the value stored for key.
func (q *Queue[K, V]) GetValueByKey(ctx context.Context, key K) (V, bool, error) {
	var zero V
	if q.values != nil {
		bz, err := q.values.get(ctx, key)
		if err != nil || bz == nil {
			return zero, false, err
		}
		value, err := q.vc.Decode(bz)
		if err != nil {
			return zero, false, errorsmod.Wrapf(ibcerrors.ErrDecode, "queue value for key %s: %v", q.kc.Stringify(key), err)
		}
		return value, true, nil
	}

	idx, found, err := q.GetIndexOfKey(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}
	return q.GetValueByIndex(ctx, idx)
}

// ContainsKey reports whether key holds a value.
func (q *Queue[K, V]) ContainsKey(ctx context.Context, key K) (bool, error) {
	_, found, err := q.GetValueByKey(ctx, key)
	return found, err
}

// GetPreviousByKey returns the closest entry with a key smaller than key.
func (q *Queue[K, V]) GetPreviousByKey(ctx context.Context, key K) (Entry[K, V], bool, error) {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return Entry[K, V]{}, false, err
	}
	idx, _, err := q.lowerBound(ctx, m, key)
	if err != nil {
		return Entry[K, V]{}, false, err
	}
	for i := idx; i > m.Start; i-- {
		entry, found, err := q.entryAt(ctx, i-1)
		if err != nil {
			return Entry[K, V]{}, false, err
		}
		if found {
			return entry, true, nil
		}
	}
	return Entry[K, V]{}, false, nil
}

// GetNextByKey returns the closest entry with a key greater than key.
func (q *Queue[K, V]) GetNextByKey(ctx context.Context, key K) (Entry[K, V], bool, error) {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return Entry[K, V]{}, false, err
	}
	idx, exact, err := q.lowerBound(ctx, m, key)
	if err != nil {
		return Entry[K, V]{}, false, err
	}
	if exact {
		idx++
	}
	for i := idx; i <= m.End; i++ {
		entry, found, err := q.entryAt(ctx, i)
		if err != nil {
			return Entry[K, V]{}, false, err
		}
		if found {
			return entry, true, nil
		}
	}
	return Entry[K, V]{}, false, nil
}

// SetValueByKey overwrites the value of a key already in the queue.
func (q *Queue[K, V]) SetValueByKey(ctx context.Context, key K, value V) error {
	idx, found, err := q.GetIndexOfKey(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(ibcerrors.ErrNotFound, "queue key %s", q.kc.Stringify(key))
	}

	vbz, err := q.vc.Encode(value)
	if err != nil {
		return err
	}
	if q.values != nil {
		return q.values.set(ctx, key, vbz)
	}
	kbz, err := encodeKey(q.kc, key)
	if err != nil {
		return err
	}
	return q.slots.Set(ctx, idx, slot{Key: kbz, Present: true, Value: vbz})
}

// RemoveByKey drops the value of key while keeping its index slot reserved, so
// the ascending order of the remaining keys is unchanged. It returns false when
// the key holds no value.
func (q *Queue[K, V]) RemoveByKey(ctx context.Context, key K) (bool, error) {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return false, err
	}
	idx, exact, err := q.lowerBound(ctx, m, key)
	if err != nil || !exact {
		return false, err
	}
	if _, present, err := q.entryAt(ctx, idx); err != nil || !present {
		return false, err
	}

	if q.values != nil {
		err = q.values.remove(ctx, key)
	} else {
		var kbz []byte
		if kbz, err = encodeKey(q.kc, key); err == nil {
			err = q.slots.Set(ctx, idx, slot{Key: kbz})
		}
	}
	if err != nil {
		return false, err
	}

	if idx == m.Start {
		if err := q.trimFront(ctx, &m); err != nil {
			return false, err
		}
		if err := q.setMeta(ctx, m); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Iterate walks entries holding a value in ascending order until cb returns true.
func (q *Queue[K, V]) Iterate(ctx context.Context, cb func(Entry[K, V]) (stop bool)) error {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return err
	}
	return q.walk(ctx, m.Start, m.End, cb)
}

// IterateFrom walks entries holding a value with a key not less than start in
// ascending order until cb returns true. The first index is found by binary
// search.
func (q *Queue[K, V]) IterateFrom(ctx context.Context, start K, cb func(Entry[K, V]) (stop bool)) error {
	m, err := q.Meta(ctx)
	if err != nil || m.len() == 0 {
		return err
	}
	idx, _, err := q.lowerBound(ctx, m, start)
	if err != nil {
		return err
	}
	return q.walk(ctx, idx, m.End, cb)
}

func (q *Queue[K, V]) walk(ctx context.Context, from, to uint64, cb func(Entry[K, V]) bool) error {
	for i := from; i <= to; i++ {
		entry, found, err := q.entryAt(ctx, i)
		if err != nil {
			return err
		}
		if found && cb(entry) {
			return nil
		}
	}
	return nil
}

// Entries returns every entry holding a value in ascending order.
func (q *Queue[K, V]) Entries(ctx context.Context) ([]Entry[K, V], error) {
	var entries []Entry[K, V]
	err := q.Iterate(ctx, func(e Entry[K, V]) bool {
		entries = append(entries, e)
		return false
	})
	return entries, err
}

// Keys returns every key holding a value in ascending order.
func (q *Queue[K, V]) Keys(ctx context.Context) ([]K, error) {
	var keys []K
	err := q.Iterate(ctx, func(e Entry[K, V]) bool {
		keys = append(keys, e.Key)
		return false
	})
	return keys, err
}

// SetMaxLength stores a new retention bound and evicts the oldest entries until
// the queue fits. Eviction stops when budget is exhausted; calling again resumes
// from the persisted start index.
func (q *Queue[K, V]) SetMaxLength(ctx context.Context, maxLength uint64, budget Budget) (Progress, error) {
	m, err := q.Meta(ctx)
	if err != nil {
		return Progress{Status: StatusFailed}, err
	}
	m.MaxLength = maxLength
	if err := q.setMeta(ctx, m); err != nil {
		return Progress{Status: StatusFailed}, err
	}

	var processed uint64
	for maxLength > 0 && m.len() > maxLength {
		if !budget.Allow() {
			return Progress{Status: StatusNeedsContinuation, Checkpoint: m.checkpoint(), Processed: processed}, nil
		}
		if _, _, err := q.PopFront(ctx); err != nil {
			return Progress{Status: StatusFailed}, err
		}
		if m, err = q.Meta(ctx); err != nil {
			return Progress{Status: StatusFailed}, err
		}
		processed++
	}

	return Progress{Status: StatusCompleted, Checkpoint: m.checkpoint(), Processed: processed}, nil
}

// Clear evicts every slot and resets the range to empty. The retention bound is
// kept. Eviction stops when budget is exhausted; calling again resumes from the
// persisted start index.
func (q *Queue[K, V]) Clear(ctx context.Context, budget Budget) (Progress, error) {
	m, err := q.Meta(ctx)
	if err != nil {
		return Progress{Status: StatusFailed}, err
	}

	var processed uint64
	for m.len() > 0 {
		if !budget.Allow() {
			return Progress{Status: StatusNeedsContinuation, Checkpoint: m.checkpoint(), Processed: processed}, nil
		}
		if _, err := q.deleteAt(ctx, m.Start); err != nil {
			return Progress{Status: StatusFailed}, err
		}
		processed++
		if m.Start == m.End {
			m.Start, m.End = 0, 0
		} else {
			m.Start++
		}
		if err := q.setMeta(ctx, m); err != nil {
			return Progress{Status: StatusFailed}, err
		}
	}

	m.Start, m.End = 0, 0
	if err := q.setMeta(ctx, m); err != nil {
		return Progress{Status: StatusFailed}, err
	}
	return Progress{Status: StatusCompleted, Processed: processed}, nil
}

func (m QueueMeta) checkpoint() Checkpoint {
	return Checkpoint{StartIndex: m.Start, EndIndex: m.End}
}
