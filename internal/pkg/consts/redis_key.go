package consts

const (
	RecipeDirtyKey     = "recipe:popularity:dirty"
	CatalogCategoryKey = "catalog:categories"
	CatalogTagKey      = "catalog:tags"
	RevokedTokenKey    = "auth:revoked:"
)

const (
	FollowLock = "follow:lock:"
)
