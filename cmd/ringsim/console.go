// cmd/ringsim/console.go
package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tamzrod/doorpanel/internal/input"
	"github.com/tamzrod/doorpanel/internal/protocol"
	"github.com/tamzrod/doorpanel/internal/ring"
)

func runConsole(ctx context.Context, cancel context.CancelFunc, rl *readline.Instance, sim *simulator) {
	out := rl.Stdout()
	printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			cancel()
			return
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}

		if quit := handle(out, sim, strings.ToLower(parts[0]), parts[1:]); quit {
			fmt.Fprintln(out, "Exiting...")
			cancel()
			return
		}
	}
}

// handle executes one console command and reports whether to quit.
func handle(out io.Writer, sim *simulator, cmd string, args []string) bool {
	switch cmd {
	case "help", "?":
		printHelp(out)

	case "quit", "exit", "q":
		return true

	case ring.EffectActivate, ring.EffectDeactivate, ring.EffectPass, ring.EffectFail,
		ring.EffectCheck, ring.EffectBell, ring.EffectStartup, ring.EffectShutdown:
		queue(out, sim, setLED(cmd))

	case "led":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: led <name>")
			return false
		}
		queue(out, sim, setLED(args[0]))

	case "bright", "b":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: bright <0-255>")
			return false
		}
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil || v > protocol.MaxBright {
			fmt.Fprintf(out, "bad brightness %q\n", args[0])
			return false
		}
		b := uint32(v)
		queue(out, sim, protocol.Command{Action: protocol.ActionSet, Bright: &b})

	case "enable", "disable", "reboot":
		queue(out, sim, protocol.Command{Action: cmd})

	case "pir":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: pir on|off")
			return false
		}
		sim.pir.v.Store(args[0] == "on")

	case "press", "release":
		idx, ok := buttonIndex(args, len(sim.buttons))
		if !ok {
			fmt.Fprintf(out, "usage: %s S1..S%d\n", cmd, len(sim.buttons))
			return false
		}
		sim.buttons[idx].v.Store(cmd == "press")

	case "tag":
		if len(args) == 0 {
			fmt.Fprintln(out, "usage: tag [sak] <uid-hex>")
			return false
		}
		t, err := input.ParseTag(strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		sim.tags.Set(t)

	default:
		fmt.Fprintf(out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

// send queues c for the poll loop. A full queue drops the command.
func (s *simulator) send(c protocol.Command) bool {
	select {
	case s.cmds <- c:
		return true
	default:
		return false
	}
}

func queue(out io.Writer, sim *simulator, c protocol.Command) {
	if !sim.send(c) {
		fmt.Fprintln(out, "command dropped: queue full")
	}
}

func setLED(name string) protocol.Command {
	return protocol.Command{Action: protocol.ActionSet, LED: &name}
}

func buttonIndex(args []string, n int) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	name := strings.ToUpper(args[0])
	if !strings.HasPrefix(name, "S") {
		return 0, false
	}
	i, err := strconv.Atoi(name[1:])
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  activate | deactivate | pass | fail | check | bell | startup | shutdown
  led <name>          run any effect name (unknown names clear the ring)
  bright <n>          set brightness for following effects
  enable | disable    panel enable state
  reboot              stop the poll loop
  pir on|off          simulate the motion sensor
  press|release Sn    simulate a button
  tag [sak] <uid>     simulate a scanned tag (hex)
  help | quit`)
}
