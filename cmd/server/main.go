package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raniahdez/trainup-backend/internal/config"
	"github.com/raniahdez/trainup-backend/internal/database"
	"github.com/raniahdez/trainup-backend/internal/handlers"
	"github.com/raniahdez/trainup-backend/internal/jobs"
	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/internal/repository"
	cronjobs "github.com/raniahdez/trainup-backend/internal/scheduler"
	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/raniahdez/trainup-backend/pkg/logger"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	goalService := services.NewGoalService(goalRepo)
	taskService := services.NewTaskService(taskRepo, userService)
	routineService := services.NewRoutineService(routineRepo, userService)
	historyService := services.NewHistoryService(historyRepo, userService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	clientHandler := handlers.NewClientHandler(userService)
	goalHandler := handlers.NewGoalHandler(goalService)
	taskHandler := handlers.NewTaskHandler(taskService)
	routineHandler := handlers.NewRoutineHandler(routineService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	routineWSHandler := handlers.NewRoutineWSHandler(routineService, routineRepo, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/auth/register/trainer", userHandler.RegisterTrainerHandler).Methods("POST")
	router.HandleFunc("/auth/register/client", userHandler.RegisterClientHandler).Methods("POST")
	router.HandleFunc("/auth/login", userHandler.LoginHandler).Methods("POST")
	router.HandleFunc("/trainers", userHandler.ListTrainersHandler).Methods("GET")

	// Routes shared by both roles
	protectedRoutes := router.PathPrefix("/me").Subrouter()
	protectedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedRoutes.HandleFunc("", userHandler.GetMeHandler).Methods("GET")
	protectedRoutes.HandleFunc("/name", userHandler.UpdateNameHandler).Methods("PUT")
	protectedRoutes.HandleFunc("/password", userHandler.ChangePasswordHandler).Methods("PUT")
	protectedRoutes.HandleFunc("", userHandler.DeleteAccountHandler).Methods("DELETE")

	// Client routes
	clientRoutes := router.PathPrefix("/client").Subrouter()
	clientRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	clientRoutes.Use(middleware.RequireRole(models.RoleClient))
	clientRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	clientRoutes.HandleFunc("/goals", goalHandler.CreateGoalHandler).Methods("POST")
	clientRoutes.HandleFunc("/goals", goalHandler.GetGoalsHandler).Methods("GET")
	clientRoutes.HandleFunc("/goals/{id}/toggle", goalHandler.ToggleGoalHandler).Methods("POST")
	clientRoutes.HandleFunc("/goals/{id}", goalHandler.DeleteGoalHandler).Methods("DELETE")
	clientRoutes.HandleFunc("/tasks/today", taskHandler.GetTodayTasksHandler).Methods("GET")
	clientRoutes.HandleFunc("/tasks/{id}/completion", taskHandler.SetTaskCompletionHandler).Methods("PUT")
	clientRoutes.HandleFunc("/routine", routineHandler.GetMyRoutineHandler).Methods("GET")
	clientRoutes.HandleFunc("/history", historyHandler.RecordSessionHandler).Methods("POST")
	clientRoutes.HandleFunc("/history", historyHandler.GetMyHistoryHandler).Methods("GET")

	// Trainer routes
	trainerRoutes := router.PathPrefix("/trainer").Subrouter()
	trainerRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	trainerRoutes.Use(middleware.RequireRole(models.RoleTrainer))
	trainerRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	trainerRoutes.HandleFunc("/clients", clientHandler.ListClientsHandler).Methods("GET")
	trainerRoutes.HandleFunc("/clients/{id}", clientHandler.GetClientHandler).Methods("GET")
	trainerRoutes.HandleFunc("/clients/{id}/seen", clientHandler.MarkClientSeenHandler).Methods("POST")
	trainerRoutes.HandleFunc("/clients/{id}/tasks", taskHandler.CreateTaskHandler).Methods("POST")
	trainerRoutes.HandleFunc("/clients/{id}/routine", routineHandler.GetClientRoutineHandler).Methods("GET")
	trainerRoutes.HandleFunc("/clients/{id}/routine", routineHandler.SaveRoutineHandler).Methods("PUT")
	trainerRoutes.HandleFunc("/clients/{id}/routine", routineHandler.DeleteRoutineHandler).Methods("DELETE")
	trainerRoutes.HandleFunc("/clients/{id}/routine/days", routineHandler.AddDayHandler).Methods("POST")
	trainerRoutes.HandleFunc("/clients/{id}/routine/days/{dayKey}", routineHandler.UpdateDayHandler).Methods("PUT")
	trainerRoutes.HandleFunc("/clients/{id}/routine/days/{dayKey}", routineHandler.DeleteDayHandler).Methods("DELETE")
	trainerRoutes.HandleFunc("/clients/{id}/routine/publish", routineHandler.PublishRoutineHandler).Methods("POST")
	trainerRoutes.HandleFunc("/clients/{id}/history", historyHandler.GetClientHistoryHandler).Methods("GET")

	// WebSocket route authenticates itself via the token query parameter
	router.HandleFunc("/ws/routine", routineWSHandler.RoutineWebSocketHandler)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background task sweep
	sweeper := jobs.NewTaskSweeper(taskService)
	cronjobs.StartTaskCronJobs(sweeper)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
