package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/huhyoundo/premium-todolist/modules/activity"
	"github.com/huhyoundo/premium-todolist/modules/api"
	"github.com/huhyoundo/premium-todolist/modules/auth"
	"github.com/huhyoundo/premium-todolist/modules/cache"
	syncmod "github.com/huhyoundo/premium-todolist/modules/sync"
	"github.com/huhyoundo/premium-todolist/modules/todo"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== premium-todolist ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	authModule := auth.NewModule()
	todoModule := todo.NewModule()
	activityModule := activity.NewModule()
	syncModule := syncmod.NewModule()
	apiModule := api.NewModule()

	// The snapshot cache is optional; without Redis the todo module
	// serves reads straight from SQLite.
	var cacheModule *cache.Module
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cacheModule = cache.NewModule(redisAddr)
		app.Register(cacheModule)
	}

	// Independent modules first, then dependents.
	app.Register(authModule)
	app.Register(todoModule)
	app.Register(activityModule)
	app.Register(syncModule)
	app.Register(apiModule)

	apiModule.SetSyncHub(syncModule.GetHub())

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	if cacheModule != nil {
		todoModule.SetCache(cacheModule.GetCache())
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register     - Register an account")
	log.Println("  POST   /api/v1/auth/login        - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh      - Refresh access token")
	log.Println("  GET    /health                   - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/profile           - Current user profile")
	log.Println("  GET    /api/v1/todos             - Full todo collection")
	log.Println("  POST   /api/v1/todos             - Create a todo")
	log.Println("  POST   /api/v1/todos/:id/toggle  - Toggle completion")
	log.Println("  DELETE /api/v1/todos/:id         - Delete a todo")
	log.Println("  GET    /api/v1/activity          - Activity graph data")
	log.Println("  GET    /ws?token=...             - Invalidation push stream")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
