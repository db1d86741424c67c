package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/OTOMOKOUSUKE/Task-app/internal/service"
)

type Server struct {
	mx             *chi.Mux
	userService    service.UserServiceI
	tasksService   service.TasksServiceI
	friendsService service.FriendsServiceI
	jwtService     JWTServiceI
}

type ServicesList struct {
	UserService    service.UserServiceI
	TasksService   service.TasksServiceI
	FriendsService service.FriendsServiceI
	JwtService     JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:             chi.NewMux(),
		userService:    servicesOptions.UserService,
		tasksService:   servicesOptions.TasksService,
		friendsService: servicesOptions.FriendsService,
		jwtService:     servicesOptions.JwtService,
	}
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)
			r.Get("/users/me", s.Me)
			r.Patch("/users/me/nickname", s.UpdateNickname)
			r.Delete("/users/me", s.DeleteAccount)

			r.Post("/tasks", s.CreateTask)
			r.Get("/tasks", s.GetTasks)
			r.Get("/tasks/{id}", s.GetTask)
			r.Put("/tasks/{id}", s.UpdateTask)
			r.Delete("/tasks/{id}", s.DeleteTask)
			r.Post("/tasks/{id}/complete", s.CompleteTask)

			r.Post("/friends/requests", s.SendFriendRequest)
			r.Get("/friends/requests", s.GetFriendRequests)
			r.Post("/friends/requests/{id}/decide", s.DecideFriendRequest)
			r.Get("/friends", s.GetFriends)
			r.Get("/friends/top-tasks", s.GetFriendsTopTasks)
			r.Get("/friends/{name}/tasks", s.GetFriendTasks)
		})
	})
}

func (s *Server) Run(address string) error {
	s.routes()
	return http.ListenAndServe(address, s.mx)
}
