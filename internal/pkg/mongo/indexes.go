package mongo

import (
	"Potluck/internal/model"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// 与查询路径一一对应的复合索引
var indexes = map[string][]bson.D{
	model.CollectionRecipes: {
		{{Key: "status", Value: 1}, {Key: "popularity_score", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		{{Key: "status", Value: 1}, {Key: "categories", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		{{Key: "status", Value: 1}, {Key: "tags", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		{{Key: "author_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	},
	model.CollectionComments: {
		{{Key: "recipe_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		{{Key: "parent_id", Value: 1}},
	},
	model.CollectionRatings: {
		{{Key: "recipe_id", Value: 1}},
	},
	model.CollectionFollows: {
		{{Key: "follower_id", Value: 1}},
	},
}

// EnsureIndexes 创建查询所需索引，已存在时为幂等操作
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, keys := range indexes {
		models := make([]mongo.IndexModel, 0, len(keys))
		for _, k := range keys {
			models = append(models, mongo.IndexModel{Keys: k})
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
