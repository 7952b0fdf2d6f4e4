package wire

import (
	"Potluck/internal/api"
	"Potluck/internal/api/config"
	"Potluck/internal/api/handler"
	"Potluck/internal/api/middleware"
	"Potluck/internal/job"
	"Potluck/internal/pkg/cron"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/kafka"
	"Potluck/internal/pkg/redis"
	"Potluck/internal/repository"
	"Potluck/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Infrastructure 已建立连接的外部依赖，可选项为 nil 时降级
type Infrastructure struct {
	Store docstore.Store
	// CatalogDB 为 nil 时分类/标签存放在文档库
	CatalogDB *gorm.DB
	// Redis 为 nil 时不加锁、不缓存，也不启动热度任务
	Redis     *redis.Adapter
	Publisher service.ActivityPublisher
	Media     service.MediaResolver
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router         *gin.Engine
	CatalogService service.CatalogService
	CronMgr        *cron.Manager
	KafkaManager   *kafka.ConsumerManager
}

func BuildApplication(infra Infrastructure, cfg *config.Config) (*ApplicationContainer, error) {
	store := infra.Store

	var (
		locker  service.Locker
		cache   service.Cache
		revoked middleware.RevokedTokens
	)
	if infra.Redis != nil {
		locker = infra.Redis
		cache = infra.Redis
		revoked = infra.Redis
	}
	publisher := infra.Publisher
	if publisher == nil {
		publisher = service.NoopActivityPublisher()
	}
	media := infra.Media
	if media == nil {
		media = service.PassthroughResolver()
	}

	recipeRepo := repository.NewRecipeRepo(store)
	userRepo := repository.NewUserRepo(store)
	ratingRepo := repository.NewRatingRepo(store)
	commentRepo := repository.NewCommentRepo(store)
	followRepo := repository.NewFollowRepo(store)

	var catalogRepo repository.CatalogRepo
	if infra.CatalogDB != nil {
		catalogRepo = repository.NewCatalogRepo(infra.CatalogDB)
	} else {
		catalogRepo = repository.NewDocCatalogRepo(store)
	}

	assembler := service.NewAssembler(userRepo, ratingRepo, media)
	catalogService := service.NewCatalogService(catalogRepo, cache, time.Duration(cfg.Catalog.CacheTTL)*time.Second)
	recipeService := service.NewRecipeService(store, recipeRepo, catalogService, assembler)
	ratingService := service.NewRatingService(store, recipeRepo, ratingRepo, publisher)
	commentService := service.NewCommentService(store, recipeRepo, commentRepo, assembler, publisher)
	cookService := service.NewCookService(recipeRepo, userRepo, followRepo, assembler)
	socialService := service.NewSocialService(store, userRepo, followRepo, recipeRepo, recipeService, assembler, locker, publisher)

	handlers := &api.HandlersGroup{
		RecipeHandler:  handler.NewRecipeHandler(recipeService),
		RatingHandler:  handler.NewRatingHandler(ratingService),
		CommentHandler: handler.NewCommentHandler(commentService),
		CookHandler:    handler.NewCookHandler(cookService),
		AccountHandler: handler.NewAccountHandler(socialService),
		CatalogHandler: handler.NewCatalogHandler(catalogService),
		RevokedTokens:  revoked,
	}

	app := &ApplicationContainer{
		Router:         api.SetupRouter(handlers, cfg.Server),
		CatalogService: catalogService,
	}

	// 热度重算依赖 Redis 脏集合
	if infra.Redis != nil {
		popularityJob := job.NewPopularityJob(recipeRepo, infra.Redis)
		app.CronMgr = cron.NewCronManager(popularityJob, cfg.Cron.PopularitySpec)

		if cfg.Kafka.Enable {
			kafkaMgr, err := kafka.NewConsumerManager(cfg, infra.Redis)
			if err != nil {
				return nil, err
			}
			app.KafkaManager = kafkaMgr
		}
	}

	return app, nil
}
