package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore 进程内文档存储，文档以 BSON 归一化形式保存，查询语义与 MongoDB 实现保持一致
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]bson.M
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]bson.M)}
}

func (s *MemoryStore) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	doc, ok := s.data[collection][id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (s *MemoryStore) GetAll(ctx context.Context, collection string, ids []string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	docs := make([]bson.M, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if doc, ok := s.data[collection][id]; ok {
			docs = append(docs, doc)
		}
	}
	s.mu.RUnlock()
	return decodeInto(docs, out)
}

func (s *MemoryStore) Find(ctx context.Context, q Query, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateQuery(q); err != nil {
		return err
	}
	where, in, after, err := normalizeQuery(q)
	if err != nil {
		return err
	}

	s.mu.RLock()
	matched := make([]bson.M, 0)
	for _, doc := range s.data[q.Collection] {
		if matches(doc, where, in) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	// 先按主键排序，保证无显式排序时结果稳定
	sort.Slice(matched, func(i, j int) bool {
		return compareValues(matched[i][IDField], matched[j][IDField]) < 0
	})
	sort.SliceStable(matched, func(i, j int) bool {
		return compareTuple(matched[i], tupleOf(matched[j], q.OrderBy), q.OrderBy) < 0
	})

	if len(after) > 0 {
		start := len(matched)
		for i, doc := range matched {
			if compareTuple(doc, after, q.OrderBy) > 0 {
				start = i
				break
			}
		}
		matched = matched[start:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return decodeInto(matched, out)
}

func (s *MemoryStore) Commit(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct{ coll, id string }
	staged := make(map[key]bson.M, len(ops))
	order := make([]key, 0, len(ops))
	current := func(k key) (bson.M, bool) {
		if doc, ok := staged[k]; ok {
			return doc, doc != nil
		}
		doc, ok := s.data[k.coll][k.id]
		return doc, ok
	}
	stage := func(k key, doc bson.M) {
		if _, ok := staged[k]; !ok {
			order = append(order, k)
		}
		staged[k] = doc
	}

	for _, op := range ops {
		if op.Collection == "" || op.ID == "" {
			return errors.New("docstore: op requires collection and id")
		}
		k := key{op.Collection, op.ID}
		switch op.Kind {
		case OpSet:
			doc, err := toDocument(op.Doc)
			if err != nil {
				return err
			}
			doc[IDField] = op.ID
			stage(k, doc)
		case OpUpdate:
			existing, ok := current(k)
			if !ok {
				return fmt.Errorf("%w: %s/%s", ErrNotFound, op.Collection, op.ID)
			}
			if op.Precondition != nil {
				want, err := normalizeValue(op.Precondition.Value)
				if err != nil {
					return err
				}
				got := existing[op.Precondition.Field]
				if !(op.Precondition.OrMissing && got == nil) && !matchEq(got, want) {
					return fmt.Errorf("%w: %s/%s", ErrConflict, op.Collection, op.ID)
				}
			}
			next := make(bson.M, len(existing)+len(op.Fields))
			for f, v := range existing {
				next[f] = v
			}
			for f, v := range op.Fields {
				nv, err := normalizeValue(v)
				if err != nil {
					return err
				}
				next[f] = nv
			}
			for f, delta := range op.Inc {
				nd, err := normalizeValue(delta)
				if err != nil {
					return err
				}
				sum, err := addNumbers(next[f], nd)
				if err != nil {
					return fmt.Errorf("docstore: inc %s: %w", f, err)
				}
				next[f] = sum
			}
			stage(k, next)
		case OpDelete:
			stage(k, nil)
		default:
			return fmt.Errorf("docstore: unknown op kind %d", op.Kind)
		}
	}

	for _, k := range order {
		doc := staged[k]
		if doc == nil {
			delete(s.data[k.coll], k.id)
			continue
		}
		if s.data[k.coll] == nil {
			s.data[k.coll] = make(map[string]bson.M)
		}
		s.data[k.coll][k.id] = doc
	}
	return nil
}

func normalizeQuery(q Query) ([]Filter, *Membership, []any, error) {
	where := make([]Filter, len(q.Where))
	for i, f := range q.Where {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return nil, nil, nil, err
		}
		where[i] = Filter{Field: f.Field, Value: v}
	}
	var in *Membership
	if q.In != nil {
		values := make([]any, len(q.In.Values))
		for i, raw := range q.In.Values {
			v, err := normalizeValue(raw)
			if err != nil {
				return nil, nil, nil, err
			}
			values[i] = v
		}
		in = &Membership{Field: q.In.Field, Values: values}
	}
	after := make([]any, len(q.After))
	for i, raw := range q.After {
		v, err := normalizeValue(raw)
		if err != nil {
			return nil, nil, nil, err
		}
		after[i] = v
	}
	return where, in, after, nil
}

func matches(doc bson.M, where []Filter, in *Membership) bool {
	for _, f := range where {
		if !matchEq(doc[f.Field], f.Value) {
			return false
		}
	}
	if in == nil {
		return true
	}
	for _, want := range in.Values {
		if matchEq(doc[in.Field], want) {
			return true
		}
	}
	return false
}

// matchEq 数组字段只要任一元素相等即视为匹配
func matchEq(got, want any) bool {
	if arr, ok := got.(bson.A); ok {
		if _, wantArr := want.(bson.A); !wantArr {
			for _, el := range arr {
				if matchEq(el, want) {
					return true
				}
			}
			return false
		}
	}
	if want == nil {
		return got == nil
	}
	if got == nil {
		return false
	}
	return typeRank(got) == typeRank(want) && compareValues(got, want) == 0
}

func tupleOf(doc bson.M, orders []Order) []any {
	out := make([]any, len(orders))
	for i, o := range orders {
		out[i] = doc[o.Field]
	}
	return out
}

func compareTuple(doc bson.M, tuple []any, orders []Order) int {
	for i, o := range orders {
		c := compareValues(doc[o.Field], tuple[i])
		if c == 0 {
			continue
		}
		if o.Dir == Desc {
			return -c
		}
		return c
	}
	return 0
}

// typeRank 参照 BSON 类型比较顺序
func typeRank(v any) int {
	switch v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return 1
	case int32, int64, float64, int:
		return 2
	case string:
		return 3
	case bson.M, bson.D:
		return 4
	case bson.A:
		return 5
	case primitive.Binary:
		return 6
	case primitive.ObjectID:
		return 7
	case bool:
		return 8
	case primitive.DateTime:
		return 9
	default:
		return 10
	}
}

func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch av := a.(type) {
	case int32, int64, float64, int:
		return cmpFloat(toFloat(av), toFloat(b))
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case primitive.DateTime:
		return cmpInt(int(av), int(b.(primitive.DateTime)))
	case primitive.ObjectID:
		return cmpString(av.Hex(), b.(primitive.ObjectID).Hex())
	case bson.A:
		bv := b.(bson.A)
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := compareValues(av[i], bv[i]); c != 0 {
				return c
			}
		}
		return cmpInt(len(av), len(bv))
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func addNumbers(cur, delta any) (any, error) {
	if cur == nil {
		cur = int64(0)
	}
	if typeRank(cur) != 2 || typeRank(delta) != 2 {
		return nil, errors.New("non-numeric operand")
	}
	_, curFloat := cur.(float64)
	_, deltaFloat := delta.(float64)
	if curFloat || deltaFloat {
		return toFloat(cur) + toFloat(delta), nil
	}
	return toInt(cur) + toInt(delta), nil
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

func toDocument(v any) (bson.M, error) {
	if v == nil {
		return nil, errors.New("docstore: nil document")
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode document: %w", err)
	}
	var doc bson.M
	if err = bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode document: %w", err)
	}
	return doc, nil
}

// normalizeValue 经一次 BSON 编解码得到与存储中一致的取值类型
func normalizeValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	doc, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func decodeInto(docs []bson.M, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return errors.New("docstore: out must be a pointer to a slice")
	}
	slice := rv.Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		if elemType.Kind() == reflect.Pointer {
			target := reflect.New(elemType.Elem())
			if err = bson.Unmarshal(raw, target.Interface()); err != nil {
				return err
			}
			result = reflect.Append(result, target)
			continue
		}
		target := reflect.New(elemType)
		if err = bson.Unmarshal(raw, target.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, target.Elem())
	}
	slice.Set(result)
	return nil
}
