// Command simctl is a headless driver for the simulation core: it stands
// in for the external renderer/UI (spec §6), exercising the same command
// surface without drawing anything. A fixed run of -ticks outer frames
// advances the simulation; -cmd flags script the control surface
// (pause/resume/step/setTimeScale/addBoid/removeBoid/spawnPredator/
// addObstacle/clearObstacles/loadProfile) at specific frame numbers.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
	"github.com/RegiByte/emergent-boids-sub003/control"
	"github.com/RegiByte/emergent-boids-sub003/engine"
	"github.com/RegiByte/emergent-boids-sub003/scheduler"
)

func main() {
	profilePath := flag.String("profile", "", "path to a YAML profile file (defaults to the embedded profile)")
	ticks := flag.Int("ticks", 300, "number of outer frames to advance")
	frameMs := flag.Float64("frame-ms", 1000.0/60.0, "simulated real milliseconds per outer frame")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")

	var cmds commandList
	flag.Var(&cmds, "cmd", "scripted command \"atTick:name[:k=v,k=v...]\", repeatable; "+
		"names: pause, resume, step, setTimeScale(scale=), addBoid(typeId=,x=,y=,energy=), "+
		"removeBoid(id=), spawnPredator(x=,y=), addObstacle(x=,y=,radius=), clearObstacles, "+
		"loadProfile(path=,id=)")

	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))

	profile, err := config.Load(*profilePath)
	if err != nil {
		log.Error("simctl: failed to load profile", "error", err)
		os.Exit(1)
	}

	state := engine.New(profile, log)
	bus := control.NewBus(control.Handle, log)
	sched := scheduler.New(state, bus, log)

	byTick := make(map[int][]scriptedCommand)
	for _, c := range cmds {
		byTick[c.atTick] = append(byTick[c.atTick], c)
	}

	for i := 0; i < *ticks; i++ {
		for _, c := range byTick[i] {
			if err := c.apply(state, sched); err != nil {
				log.Error("simctl: command failed", "tick", i, "cmd", c.name, "error", err)
			}
		}
		sched.Advance(*frameMs)
	}

	snap := state.Snapshot()
	fmt.Printf("frame=%d elapsedMs=%.1f agents=%d obstacles=%d food=%d markers=%d\n",
		snap.Frame, snap.SimulatedElapsedMs, len(snap.Agents), len(snap.Obstacles), len(snap.FoodSources), len(snap.DeathMarkers))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// scriptedCommand is one entry of a -cmd flag: the outer frame it fires
// on, the command name, and its raw key=value arguments.
type scriptedCommand struct {
	atTick int
	name   string
	args   map[string]string
}

func (c scriptedCommand) arg(key string) string { return c.args[key] }

func (c scriptedCommand) argFloat(key string) float64 {
	v, _ := strconv.ParseFloat(c.args[key], 64)
	return v
}

// apply dispatches one scripted command against a running simulation.
// Time controls (pause/resume/step/setTimeScale) act directly on the
// engine's time controller, matching spec §5: they are not part of the
// event/effect control plane. Every other command in the surface routes
// through sched.Dispatch so it passes through the same handler/executor
// path a real renderer's command would.
func (c scriptedCommand) apply(state *engine.State, sched *scheduler.Scheduler) error {
	switch c.name {
	case "pause":
		state.Time().Pause()
		return nil

	case "resume":
		state.Time().Resume()
		return nil

	case "step":
		state.Time().Step()
		return nil

	case "setTimeScale":
		scale, err := strconv.ParseFloat(c.arg("scale"), 32)
		if err != nil {
			return fmt.Errorf("setTimeScale: %w", err)
		}
		state.Time().SetTimeScale(float32(scale))
		return nil

	case "addBoid":
		sched.Dispatch(control.Event{
			Kind:   control.EventBoidAdded,
			TypeID: c.arg("typeId"),
			X:      c.argFloat("x"),
			Y:      c.argFloat("y"),
			Energy: c.argFloat("energy"),
		})
		return nil

	case "removeBoid":
		id, err := strconv.ParseUint(c.arg("id"), 10, 32)
		if err != nil {
			return fmt.Errorf("removeBoid: %w", err)
		}
		sched.Dispatch(control.Event{Kind: control.EventBoidRemoved, BoidID: components.AgentID(id)})
		return nil

	case "spawnPredator":
		sched.Dispatch(control.Event{Kind: control.EventSpawnPredator, SpawnX: c.argFloat("x"), SpawnY: c.argFloat("y")})
		return nil

	case "addObstacle":
		sched.Dispatch(control.Event{Kind: control.EventObstacleAdded, X: c.argFloat("x"), Y: c.argFloat("y"), Radius: c.argFloat("radius")})
		return nil

	case "clearObstacles":
		sched.Dispatch(control.Event{Kind: control.EventObstaclesCleared})
		return nil

	case "loadProfile":
		p, err := config.Load(c.arg("path"))
		if err != nil {
			return fmt.Errorf("loadProfile: %w", err)
		}
		id := c.arg("id")
		if id == "" {
			id = p.ID
		}
		p.ID = id
		sched.RegisterProfile(p)
		sched.Dispatch(control.Event{Kind: control.EventProfileSwitched, ProfileID: id})
		return nil

	default:
		return fmt.Errorf("unknown command %q", c.name)
	}
}

// commandList implements flag.Value, collecting repeated -cmd flags into
// a slice of scriptedCommand.
type commandList []scriptedCommand

func (c *commandList) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(*c))
	for i, cmd := range *c {
		parts[i] = fmt.Sprintf("%d:%s", cmd.atTick, cmd.name)
	}
	return strings.Join(parts, ",")
}

// Set parses "atTick:name[:k=v,k=v,...]" and appends the result.
func (c *commandList) Set(raw string) error {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return fmt.Errorf("cmd: expected atTick:name[:args], got %q", raw)
	}
	atTick, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("cmd: invalid tick %q: %w", parts[0], err)
	}
	cmd := scriptedCommand{atTick: atTick, name: parts[1], args: make(map[string]string)}
	if len(parts) == 3 {
		for _, kv := range strings.Split(parts[2], ",") {
			if kv == "" {
				continue
			}
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("cmd: invalid arg %q in %q", kv, raw)
			}
			cmd.args[k] = v
		}
	}
	*c = append(*c, cmd)
	return nil
}
