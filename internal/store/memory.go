package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store used by the test suite. Documents round-trip
// through bson so the same struct tags drive both implementations. Filters
// support field equality only, which is all the services use.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]bson.M)}
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func equalValue(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !equalValue(got, want) {
			return false
		}
	}
	return true
}

func (m *Memory) Insert(ctx context.Context, collection string, doc interface{}) error {
	d, err := toDoc(doc)
	if err != nil {
		return err
	}
	if id, ok := d["_id"]; !ok || id == nil || id == "" {
		d["_id"] = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], d)
	return nil
}

func (m *Memory) FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.collections[collection] {
		if matches(d, filter) {
			raw, err := bson.Marshal(d)
			if err != nil {
				return err
			}
			return bson.Unmarshal(raw, out)
		}
	}
	return ErrNotFound
}

func (m *Memory) Find(ctx context.Context, collection string, filter bson.M, sortSpec bson.D, out interface{}) error {
	m.mu.RLock()
	var matched []bson.M
	for _, d := range m.collections[collection] {
		if matches(d, filter) {
			matched = append(matched, d)
		}
	}
	m.mu.RUnlock()

	if len(sortSpec) > 0 {
		key := sortSpec[0].Key
		desc := false
		if dir, ok := sortSpec[0].Value.(int); ok && dir < 0 {
			desc = true
		}
		sort.SliceStable(matched, func(i, j int) bool {
			less := lessValue(matched[i][key], matched[j][key])
			if desc {
				return !less && !equalValue(matched[i][key], matched[j][key])
			}
			return less
		})
	}

	// out is *[]T; decode each matched document into a fresh element.
	slicePtr := reflect.ValueOf(out).Elem()
	elemType := slicePtr.Type().Elem()
	result := reflect.MakeSlice(slicePtr.Type(), 0, len(matched))
	for _, d := range matched {
		raw, err := bson.Marshal(d)
		if err != nil {
			return err
		}
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slicePtr.Set(result)
	return nil
}

func lessValue(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func (m *Memory) UpdateOne(ctx context.Context, collection string, filter, set bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.collections[collection] {
		if matches(d, filter) {
			setDoc, err := toDoc(set)
			if err != nil {
				return 0, err
			}
			for k, v := range setDoc {
				d[k] = v
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.collections[collection] {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}
