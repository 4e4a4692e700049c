package wire

import (
	"Inkwell/internal/api"
	"Inkwell/internal/api/config"
	"Inkwell/internal/api/handler"
	"Inkwell/internal/job"
	"Inkwell/internal/pkg/cron"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router    *gin.Engine
	DB        *gorm.DB
	CronMgr   *cron.Manager
	Publisher kafka.Publisher
}

func BuildApplication(db *gorm.DB, publisher kafka.Publisher, cfg *config.Config) *ApplicationContainer {
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	actionRepo := repository.NewPostActionRepo(db)

	userService := service.NewUserService(userRepo, publisher)
	postService := service.NewPostService(postRepo, tagRepo, actionRepo, userRepo, publisher)
	postActionService := service.NewPostActionService(actionRepo, postRepo, publisher)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService, postService),
		PostHandler:       handler.NewPostHandler(postService),
		PostActionHandler: handler.NewPostActionHandler(postActionService),
		PageHandler:       handler.NewPageHandler(cfg.Web.Root),
	}

	router := api.SetupRouter(handlers, api.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	cronMgr := cron.NewCronManager(job.NewPostCountersJob(postActionService), cfg.Jobs.PostCounters)

	return &ApplicationContainer{
		Router:    router,
		DB:        db,
		CronMgr:   cronMgr,
		Publisher: publisher,
	}
}
