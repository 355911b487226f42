package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"staffhub/internal/config"
	"staffhub/internal/database/postgres"
	"staffhub/internal/database/redis"
	"staffhub/internal/event"
	"staffhub/internal/handlers"
	"staffhub/internal/repository"
	"staffhub/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/staffhub", "log", "auth_service")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.Postgres)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err)
	}
	defer db.Close()

	if err := postgres.InitSchema(db); err != nil {
		log.Fatalf("error initializing schema: %s", err)
	}

	// Redis and RabbitMQ are optional. The auth service degrades to
	// in-process fallbacks when either is missing.
	var cacheRepo repository.CacheRepository
	redisClient, err := redis.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, using in-memory login counters: %s", err)
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient.GetClient())
	}

	var eventPublisher *event.StaffEventPublisher
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQ.Username, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	rabbitConn, err := event.NewRabbitMQConnection(rabbitURL)
	if err != nil {
		log.Printf("rabbitmq unavailable, events disabled: %s", err)
	} else {
		defer rabbitConn.Close()
		eventPublisher = event.NewStaffEventPublisher(rabbitConn)
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	// services
	jwtService := services.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	sessionService := services.NewSessionService(refreshTokenRepo, cfg.JWT.RefreshTTL)
	roleService := services.NewRoleService(roleRepo)
	authService := services.NewAuthService(userRepo, auditRepo, cacheRepo, sessionService, jwtService, roleService, eventPublisher)
	auditService := services.NewAuditService(auditRepo)
	employeeService := services.NewEmployeeService(employeeRepo, departmentRepo, eventPublisher)
	taskService := services.NewTaskService(taskRepo, employeeRepo, eventPublisher)
	noteService := services.NewNoteService(noteRepo, employeeRepo)
	departmentService := services.NewDepartmentService(departmentRepo)
	announcementService := services.NewAnnouncementService(announcementRepo, eventPublisher)

	// handlers
	mw := handlers.NewMiddleware(jwtService, authService, employeeRepo)
	authHandler := handlers.NewAuthHandler(authService, roleService)
	roleHandler := handlers.NewRoleHandler(roleService)
	userHandler := handlers.NewUserHandler(authService, auditService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, taskService, noteService)
	taskHandler := handlers.NewTaskHandler(taskService)
	noteHandler := handlers.NewNoteHandler(noteService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)

	if err := roleHandler.InitDefaultRoles(); err != nil {
		log.Fatalf("error seeding default roles: %s", err)
	}
	if cfg.Admin.Password != "" {
		if err := authHandler.InitDefaultAdmin(cfg); err != nil {
			log.Printf("error seeding default admin: %s", err)
		}
	}

	r := gin.Default()
	mw.RegisterRoutes(r)
	authHandler.RegisterRoutes(r, mw)
	roleHandler.RegisterRoutes(r, mw)
	userHandler.RegisterRoutes(r, mw)
	employeeHandler.RegisterRoutes(r, mw)
	taskHandler.RegisterRoutes(r, mw)
	noteHandler.RegisterRoutes(r, mw)
	departmentHandler.RegisterRoutes(r, mw)
	announcementHandler.RegisterRoutes(r, mw)

	log.Printf("starting staffhub auth service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
