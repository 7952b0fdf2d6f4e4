package mongo

import (
	"Potluck/internal/pkg/docstore"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store 基于 MongoDB 的 docstore.Store 实现，Commit 依赖副本集事务
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{docstore.IDField: id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNotFound
	}
	return err
}

func (s *Store) GetAll(ctx context.Context, collection string, ids []string, out any) error {
	if len(ids) == 0 {
		return decodeEmpty(ctx, out)
	}
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{docstore.IDField: bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()
	return cursor.All(ctx, out)
}

func (s *Store) Find(ctx context.Context, q docstore.Query, out any) error {
	if q.In != nil && len(q.In.Values) > docstore.MaxMembershipValues {
		return docstore.ErrMembershipTooLarge
	}
	if len(q.After) > 0 && len(q.After) != len(q.OrderBy) {
		return errors.New("docstore: resume tuple does not match sort order")
	}

	opts := options.Find()
	if len(q.OrderBy) > 0 {
		sortDoc := bson.D{}
		for _, o := range q.OrderBy {
			dir := 1
			if o.Dir == docstore.Desc {
				dir = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: o.Field, Value: dir})
		}
		opts.SetSort(sortDoc)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(q.Collection).Find(ctx, buildFilter(q), opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()
	return cursor.All(ctx, out)
}

// Commit 单条操作直接执行，多条操作放入一个会话事务
func (s *Store) Commit(ctx context.Context, ops []docstore.Op) error {
	if len(ops) == 0 {
		return nil
	}
	if len(ops) == 1 {
		return s.apply(ctx, ops[0])
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			if err := s.apply(sc, op); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (s *Store) apply(ctx context.Context, op docstore.Op) error {
	col := s.db.Collection(op.Collection)
	switch op.Kind {
	case docstore.OpSet:
		_, err := col.ReplaceOne(ctx, bson.M{docstore.IDField: op.ID}, op.Doc, options.Replace().SetUpsert(true))
		return err
	case docstore.OpUpdate:
		filter := bson.M{docstore.IDField: op.ID}
		if op.Precondition != nil {
			filter[op.Precondition.Field] = preconditionValue(op.Precondition)
		}
		update := bson.M{}
		if len(op.Fields) > 0 {
			update["$set"] = op.Fields
		}
		if len(op.Inc) > 0 {
			update["$inc"] = op.Inc
		}
		if len(update) == 0 {
			return nil
		}
		res, err := col.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
		if op.Precondition != nil {
			n, err := col.CountDocuments(ctx, bson.M{docstore.IDField: op.ID}, options.Count().SetLimit(1))
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: %s/%s", docstore.ErrConflict, op.Collection, op.ID)
			}
		}
		return fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, op.Collection, op.ID)
	case docstore.OpDelete:
		_, err := col.DeleteOne(ctx, bson.M{docstore.IDField: op.ID})
		return err
	}
	return fmt.Errorf("docstore: unknown op kind %d", op.Kind)
}

func buildFilter(q docstore.Query) bson.M {
	clauses := bson.A{}
	for _, f := range q.Where {
		clauses = append(clauses, bson.M{f.Field: f.Value})
	}
	if q.In != nil {
		clauses = append(clauses, bson.M{q.In.Field: bson.M{"$in": q.In.Values}})
	}
	if len(q.After) > 0 {
		clauses = append(clauses, resumeAfter(q.OrderBy, q.After))
	}
	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0].(bson.M)
	}
	return bson.M{"$and": clauses}
}

// resumeAfter 组合排序下的排他续读条件：
// (k1 > v1) OR (k1 = v1 AND k2 > v2) OR ...，降序字段使用 $lt
func resumeAfter(orders []docstore.Order, after []any) bson.M {
	branches := bson.A{}
	for i, o := range orders {
		branch := bson.M{}
		for j := 0; j < i; j++ {
			branch[orders[j].Field] = after[j]
		}
		op := "$gt"
		if o.Dir == docstore.Desc {
			op = "$lt"
		}
		branch[o.Field] = bson.M{op: after[i]}
		branches = append(branches, branch)
	}
	return bson.M{"$or": branches}
}

func decodeEmpty(ctx context.Context, out any) error {
	cursor, err := mongo.NewCursorFromDocuments(nil, nil, nil)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

// preconditionValue {$in: [v, null]} 同时匹配缺失字段
func preconditionValue(p *docstore.Filter) any {
	if p.OrMissing {
		return bson.M{"$in": bson.A{p.Value, nil}}
	}
	return p.Value
}
