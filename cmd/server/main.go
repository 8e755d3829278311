package main

import (
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"survivalcore/internal/animalai"
	"survivalcore/internal/api"
	"survivalcore/internal/config"
	"survivalcore/internal/deployable"
	"survivalcore/internal/model"
	"survivalcore/internal/projectile"
	"survivalcore/internal/seed"
	"survivalcore/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	log.Println("================================")
	log.Println(" SURVIVAL CORE - SIMULATION SERVER")
	log.Println("================================")

	appConfig := config.Load()

	scheduler := store.NewScheduler(10*time.Millisecond, time.Now().UnixNano())
	world := store.NewWorld(scheduler)

	for _, def := range seed.DefaultItemDefinitions() {
		world.ItemDefinitions.Insert(def.ID, def)
	}
	log.Printf("loaded %d item definitions", world.ItemDefinitions.Len())

	campfireLogic := deployable.ProcessCampfireLogic(world)
	scheduler.Register("process_campfire_logic_scheduled", func(ctx *store.ReducerContext, row store.ScheduleRow) error {
		world.Mu.Lock()
		defer world.Mu.Unlock()
		return campfireLogic(ctx, row)
	})
	scheduler.Start()
	log.Println("scheduler started (campfire fuel-burn rows fire on demand)")

	tickerRng := rand.New(rand.NewSource(time.Now().UnixNano()))
	stopTicks := runTickLoops(world, tickerRng)

	debugCfg := api.DefaultObservabilityConfig()
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	adminAuthEnabled := os.Getenv("ADMIN_AUTH_ENABLED") == "true"
	var sessionManager *api.SessionManager
	if adminAuthEnabled {
		adminIdentity := model.Identity(os.Getenv("ADMIN_IDENTITY"))
		sessionManager = api.NewSessionManager(adminIdentity)
		log.Printf("admin authentication ENABLED (identity: %s)", adminIdentity)
	} else {
		log.Println("admin authentication DISABLED (set ADMIN_AUTH_ENABLED=true to enable)")
	}

	server := api.NewServerWithAuth(world, sessionManager, adminAuthEnabled)

	port := strconv.Itoa(appConfig.Server.Port)
	go func() {
		addr := ":" + port
		log.Printf("API server on http://localhost%s", addr)
		log.Printf("Admin panel: http://localhost%s/admin", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down...")
	close(stopTicks)
	scheduler.Stop()
	server.Stop()
	log.Println("goodbye")
}

// runTickLoops drives the three scheduled reducers named in §6.3 that
// don't fit the Scheduler's named-row model (they scan the whole
// world every cadence rather than firing a single per-entity row):
// projectile integration, wild-animal AI, and resource respawn. Each
// gets its own ticker at its configured cadence, generalized from the
// teacher's single Engine.tick() loop (internal/game/engine.go) into
// N independently-paced loops, still serialized against reducers by
// taking world.Mu for the duration of each pass.
func runTickLoops(world *store.World, rng *rand.Rand) chan struct{} {
	stop := make(chan struct{})

	projectileTicker := time.NewTicker(config.ProjectileTickIntervalMS * time.Millisecond)
	go func() {
		defer projectileTicker.Stop()
		for {
			select {
			case <-projectileTicker.C:
				start := time.Now()
				world.Mu.Lock()
				projectile.Tick(world, rng, start, func(pos model.Vec2) {})
				world.Mu.Unlock()
				api.RecordTick("projectiles", time.Since(start))
			case <-stop:
				return
			}
		}
	}()

	aiTicker := time.NewTicker(config.AITickIntervalMS * time.Millisecond)
	go func() {
		defer aiTicker.Stop()
		for {
			select {
			case <-aiTicker.C:
				start := time.Now()
				world.Mu.Lock()
				animalai.Tick(world, rng, start)
				world.Mu.Unlock()
				api.RecordTick("animal_ai", time.Since(start))
			case <-stop:
				return
			}
		}
	}()

	respawnTicker := time.NewTicker(config.ResourceRespawnScanIntervalSecs * time.Second)
	go func() {
		defer respawnTicker.Stop()
		for {
			select {
			case <-respawnTicker.C:
				start := time.Now()
				world.Mu.Lock()
				deployable.Tick(world, start)
				world.Mu.Unlock()
				api.RecordTick("resource_respawn", time.Since(start))
			case <-stop:
				return
			}
		}
	}()

	return stop
}
