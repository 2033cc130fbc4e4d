package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpadapter "vaultown/internal/adapter/http"
	metricsinmem "vaultown/internal/adapter/metrics/inmemory"
	redisnotify "vaultown/internal/adapter/notify/redis"
	gormrepo "vaultown/internal/adapter/repo/gorm"
	"vaultown/internal/app/expeditionops"
	"vaultown/internal/app/expeditionsched"
	"vaultown/internal/app/incidentsched"
	"vaultown/internal/app/ports"
	"vaultown/internal/app/resourcesched"
	"vaultown/internal/app/session"
	"vaultown/internal/app/vaultops"
	"vaultown/internal/app/vaultview"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	dsn := strings.TrimSpace(os.Getenv("VAULTOWN_DB_DSN"))
	if dsn == "" {
		logger.Fatal("VAULTOWN_DB_DSN is required")
	}
	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		logger.Fatal("open postgres", zap.Error(err))
	}
	migrationsDir := envStr("VAULTOWN_MIGRATIONS_DIR", "./migrations")
	if err := gormrepo.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	vaults := gormrepo.NewVaultRepo(db)
	rooms := gormrepo.NewRoomRepo(db)
	dwellers := gormrepo.NewDwellerRepo(db)
	expeditions := gormrepo.NewExpeditionRepo(db)
	incidents := gormrepo.NewIncidentRepo(db)
	tx := gormrepo.NewTxManager(db)

	notifier := buildNotifier(logger)
	metrics := metricsinmem.NewRecorder()

	resourceSched := resourcesched.New(vaults, rooms, dwellers, logger, metrics)
	resourceSched.Interval = durationEnv("VAULTOWN_RESOURCE_TICK", resourcesched.DefaultInterval)

	expeditionSched := expeditionsched.New(expeditions, notifier, logger, metrics)
	expeditionSched.Interval = durationEnv("VAULTOWN_EXPEDITION_TICK", expeditionsched.DefaultInterval)
	expeditionSched.EventIntervalMinutes = envInt("VAULTOWN_EVENT_INTERVAL_MINUTES", expeditionSched.EventIntervalMinutes)

	incidentSched := incidentsched.New(vaults, rooms, dwellers, incidents, notifier, logger, metrics)
	incidentSched.Interval = durationEnv("VAULTOWN_INCIDENT_TICK", incidentsched.DefaultInterval)
	incidentSched.SpawnChance = envFloat("VAULTOWN_SPAWN_CHANCE", incidentsched.DefaultSpawnChance)
	incidentSched.SpawnCooldown = durationEnv("VAULTOWN_SPAWN_COOLDOWN", incidentsched.DefaultSpawnCooldown)

	resourceSched.Start()
	expeditionSched.Start()
	incidentSched.Start()

	h := httpadapter.Handler{
		VaultUC: vaultops.UseCase{
			Tx:        tx,
			Vaults:    vaults,
			Rooms:     rooms,
			Dwellers:  dwellers,
			Incidents: incidents,
			Now:       time.Now,
		},
		ExpeditionUC: expeditionops.UseCase{
			Tx:          tx,
			Vaults:      vaults,
			Dwellers:    dwellers,
			Expeditions: expeditions,
			Now:         time.Now,
		},
		ViewUC: vaultview.UseCase{
			Vaults:      vaults,
			Rooms:       rooms,
			Dwellers:    dwellers,
			Expeditions: expeditions,
			Incidents:   incidents,
		},
		Sessions: session.NewCache(),
		Metrics:  metrics,
	}

	addr := envStr("VAULTOWN_LISTEN_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	s.OnShutdown = append(s.OnShutdown, func(ctx context.Context) {
		incidentSched.Stop()
		expeditionSched.Stop()
		resourceSched.Stop()
		if closer, ok := notifier.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	})

	logger.Info("vaultown server listening", zap.String("addr", addr))
	s.Spin()
}

// buildNotifier falls back to a no-op when Redis is not configured or not
// reachable at boot. Notifications are best-effort everywhere else too.
func buildNotifier(logger *zap.Logger) ports.Notifier {
	addr := strings.TrimSpace(os.Getenv("VAULTOWN_REDIS_ADDR"))
	if addr == "" {
		logger.Info("redis not configured, notifications disabled")
		return ports.NopNotifier{}
	}
	n, err := redisnotify.NewNotifier(addr, os.Getenv("VAULTOWN_REDIS_PASSWORD"), envInt("VAULTOWN_REDIS_DB", 0), logger)
	if err != nil {
		logger.Warn("redis unavailable, notifications disabled", zap.Error(err))
		return ports.NopNotifier{}
	}
	return n
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
