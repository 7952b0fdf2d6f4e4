package model

import "time"

// ActivityEvent 评分 / 评论 / 关注产生的动态，经 Kafka 投递
type ActivityEvent struct {
	Type       string    `json:"type"`
	RecipeID   string    `json:"recipeId,omitempty"`
	UserID     string    `json:"userId"`
	TargetID   string    `json:"targetId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
