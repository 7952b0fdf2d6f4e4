package consts

const (
	// UserIDKey gin.Context 与 context.Context 中的调用者 ID
	UserIDKey = "user_id"
)

const (
	ActivityRecipeRated  = "recipe.rated"
	ActivityCommentAdded = "comment.added"
	ActivityUserFollowed = "user.followed"
)

const (
	// UserNameKey / UserEmailKey 来自 Token 的身份信息，用于首次访问时建档
	UserNameKey  = "user_name"
	UserEmailKey = "user_email"
)
