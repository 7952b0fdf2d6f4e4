package model

import "time"

// LocalizedLabels 语言代码到展示文案的映射，如 {"en": "Dessert", "pt-br": "Sobremesa"}
type LocalizedLabels map[string]string

// Label 按语言取文案，缺失时回退到 fallback 语言
func (l LocalizedLabels) Label(locale, fallback string) string {
	if v, ok := l[locale]; ok && v != "" {
		return v
	}
	return l[fallback]
}

// Category / Tag 目录项，关系库由 gorm 承载，文档库驱动下存放于同名集合
type Category struct {
	ID        string          `gorm:"type:varchar(64);primaryKey" bson:"_id" json:"id"`
	Labels    LocalizedLabels `gorm:"type:json;serializer:json" bson:"labels" json:"labels"`
	SortOrder int             `gorm:"not null;default:0" bson:"sort_order" json:"sortOrder"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}

type Tag struct {
	ID        string          `gorm:"type:varchar(64);primaryKey" bson:"_id" json:"id"`
	Labels    LocalizedLabels `gorm:"type:json;serializer:json" bson:"labels" json:"labels"`
	SortOrder int             `gorm:"not null;default:0" bson:"sort_order" json:"sortOrder"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
}

func (Tag) TableName() string {
	return "tags"
}
