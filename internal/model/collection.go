package model

// 文档集合名称
const (
	CollectionRecipes    = "recipes"
	CollectionRatings    = "ratings"
	CollectionComments   = "comments"
	CollectionFollows    = "follows"
	CollectionUsers      = "users"
	CollectionCategories = "categories"
	CollectionTags       = "tags"
)
