package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/torkelz/havenborough/physics"
	"github.com/torkelz/havenborough/physics/actor"
)

// SceneHandles keeps the bodies the demo reports on
type SceneHandles struct {
	Ground actor.Handle
	Ramp   actor.Handle
	Ball   actor.Handle
	Crate  actor.Handle
	Plank  actor.Handle
	Ledge  actor.Handle
}

// rampTriangles builds a slope rising along +X, 4 m wide and 2 m high, in cm
func rampTriangles() []actor.Triangle {
	a := mgl64.Vec3{-200, 0, -200}
	b := mgl64.Vec3{200, 200, -200}
	c := mgl64.Vec3{200, 200, 200}
	d := mgl64.Vec3{-200, 0, 200}

	return []actor.Triangle{
		actor.NewTriangle(a, c, b),
		actor.NewTriangle(a, d, c),
	}
}

// SetupScene creates a floor, a ramp and a few falling bodies
func SetupScene(world *physics.World) SceneHandles {
	var scene SceneHandles

	// floor top face at y = 0
	scene.Ground = world.CreateAABB(0, true, mgl64.Vec3{0, -100, 0}, mgl64.Vec3{2000, 100, 2000}, false)
	scene.Ramp = world.CreateHull(mgl64.Vec3{600, 0, 0}, rampTriangles())
	scene.Ledge = world.CreateAABB(0, true, mgl64.Vec3{-600, 150, 0}, mgl64.Vec3{100, 10, 100}, true)

	scene.Ball = world.CreateSphere(5, false, mgl64.Vec3{600, 500, 0}, 30)
	scene.Crate = world.CreateAABB(20, false, mgl64.Vec3{0, 300, 0}, mgl64.Vec3{40, 40, 40}, false)
	scene.Plank = world.CreateOBB(10, false, mgl64.Vec3{-600, 400, 0}, mgl64.Vec3{120, 10, 30}, false)
	_ = world.SetBodyRotation(scene.Plank, mgl64.DegToRad(30), 0, 0)

	return scene
}

func printBody(world *physics.World, name string, handle actor.Handle) {
	position, err := world.BodyPosition(handle)
	if err != nil {
		fmt.Printf("  %-6s %v\n", name, err)
		return
	}
	velocity, _ := world.BodyVelocity(handle)
	inAir, _ := world.BodyInAir(handle)

	fmt.Printf("  %-6s position=%.1f velocity=%.1f inAir=%v\n", name, position, velocity, inAir)
}

func main() {
	configPath := flag.String("config", "", "YAML physics config")
	watch := flag.Bool("watch", false, "reload the config when it changes")
	steps := flag.Int("steps", 180, "number of frames to simulate")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	world := physics.NewWorld()
	world.SetLogger(logger)

	var updates <-chan physics.Config
	var watchErrors <-chan error
	if *configPath != "" {
		config, err := physics.LoadConfig(*configPath)
		if err != nil {
			logger.Error("loading config", "error", err)
			os.Exit(1)
		}
		if err := world.ApplyConfig(config); err != nil {
			logger.Error("applying config", "error", err)
			os.Exit(1)
		}

		if *watch {
			watcher, err := physics.WatchConfig(*configPath)
			if err != nil {
				logger.Error("watching config", "error", err)
				os.Exit(1)
			}
			defer watcher.Close()
			updates, watchErrors = watcher.Updates, watcher.Errors
		}
	}

	scene := SetupScene(world)

	world.Events.Subscribe(physics.ON_LANDED, func(event physics.Event) {
		logger.Info("landed", "handle", event.(physics.LandedEvent).Body)
	})
	world.Events.Subscribe(physics.COLLISION_ENTER, func(event physics.Event) {
		enter := event.(physics.CollisionEnterEvent)
		logger.Debug("contact",
			"a", enter.BodyA,
			"b", enter.BodyB,
			"type", enter.Hit.Type.String(),
			"depth", enter.Hit.Depth,
		)
	})

	const dt float64 = 1.0 / 60.0
	for step := 0; step < *steps; step++ {
		select {
		case config := <-updates:
			if err := world.ApplyConfig(config); err != nil {
				logger.Warn("rejected config", "error", err)
			}
		case err := <-watchErrors:
			logger.Warn("config reload", "error", err)
		default:
		}

		world.Update(dt, 60)

		for i := 0; i < world.HitDataCount(); i++ {
			hit, _ := world.HitDataAt(i)
			if hit.Edge {
				logger.Info("edge grabbed", "handle", hit.Collider, "ledge", hit.Victim)
			}
		}

		if step%30 == 0 {
			fmt.Printf("--- FRAME %d ---\n", step)
			printBody(world, "ball", scene.Ball)
			printBody(world, "crate", scene.Crate)
			printBody(world, "plank", scene.Plank)
		}
	}

	fmt.Println("Done!")
}
