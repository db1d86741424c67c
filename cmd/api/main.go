// @title Task-app API
// @description API for task tracker with friend task sharing
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/OTOMOKOUSUKE/Task-app/internal/api"
	"github.com/OTOMOKOUSUKE/Task-app/internal/repository"
	"github.com/OTOMOKOUSUKE/Task-app/internal/service"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/cleanup"
	"github.com/OTOMOKOUSUKE/Task-app/pkg/config"
	jwtservice "github.com/OTOMOKOUSUKE/Task-app/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	tasksRepo := repository.NewTasksRepo(&dbCfg)
	requestsRepo := repository.NewFriendRequestsRepo(&dbCfg)

	serv := api.New(&api.ServicesList{
		UserService:    service.NewUserService(usersRepo),
		TasksService:   service.NewTasksService(tasksRepo, usersRepo),
		FriendsService: service.NewFriendsService(requestsRepo, usersRepo, tasksRepo),
		JwtService:     jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
