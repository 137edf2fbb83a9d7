package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/events"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// CommandHandler executes one player command.
type CommandHandler func(g *Game, d *Descriptor, args string)

// Command is one entry in the command table.
type Command struct {
	Name    string
	Handler CommandHandler
	Wizard  bool // requires wizard level
}

// InitCommands registers all available game commands.
func InitCommands() map[string]*Command {
	cmds := make(map[string]*Command)

	register := func(name string, handler CommandHandler) {
		cmds[strings.ToLower(name)] = &Command{Name: name, Handler: handler}
	}
	registerWiz := func(name string, handler CommandHandler) {
		cmds[strings.ToLower(name)] = &Command{Name: name, Handler: handler, Wizard: true}
	}

	// Communication
	register("say", cmdSay)
	register("'", cmdSay)

	// Items
	register("get", cmdGet)
	register("take", cmdGet)
	register("put", cmdPut)
	register("drop", cmdDrop)
	register("give", cmdGive)

	// Equipment
	register("wear", cmdWear)
	register("wield", cmdWield)
	register("remove", cmdRemove)
	register("equipment", cmdEquipment)
	register("eq", cmdEquipment)

	// Information
	register("look", cmdLook)
	register("l", cmdLook)
	register("inventory", cmdInventory)
	register("i", cmdInventory)
	register("read", cmdRead)
	register("score", cmdScore)
	register("who", cmdWho)

	// Movement
	register("go", cmdGo)

	// Session
	register("quit", cmdQuit)

	// Admin/wizard
	registerWiz("@spawn", cmdSpawn)
	registerWiz("@purge", cmdPurge)
	registerWiz("@reload", cmdReload)
	registerWiz("@reset", cmdReset)
	registerWiz("@stats", cmdStats)
	registerWiz("@validate", cmdValidate)

	return cmds
}

// DispatchCommand parses one line of player input and runs the matching
// command. Lookup order is exact command, abbreviated @-command, then
// room exit names; anything else gets "Huh?".
func DispatchCommand(g *Game, d *Descriptor, input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	d.LastCmd = time.Now()
	d.CmdCount++
	if g.Metrics != nil {
		g.Metrics.CommandProcessed()
	}

	if input[0] == '\'' {
		cmdSay(g, d, strings.TrimSpace(input[1:]))
		return
	}

	var cmdName, args string
	if spaceIdx := strings.IndexByte(input, ' '); spaceIdx >= 0 {
		cmdName = input[:spaceIdx]
		args = strings.TrimSpace(input[spaceIdx+1:])
	} else {
		cmdName = input
	}
	lower := strings.ToLower(cmdName)

	if cmd, ok := g.Commands[lower]; ok {
		if cmd.Wizard && !g.isWizard(d) {
			d.Send("Huh?")
			return
		}
		cmd.Handler(g, d, args)
		return
	}

	// Abbreviations for @-commands (@sp = @spawn)
	if len(lower) > 1 && lower[0] == '@' {
		var matched *Command
		count := 0
		for name, cmd := range g.Commands {
			if strings.HasPrefix(name, lower) {
				matched = cmd
				count++
			}
		}
		if count == 1 {
			if matched.Wizard && !g.isWizard(d) {
				d.Send("Huh?")
				return
			}
			matched.Handler(g, d, args)
			return
		}
		if count > 1 {
			d.Send("Ambiguous command.")
			return
		}
	}

	// Exit names double as movement commands ("north", "n")
	if g.tryExit(d, lower) {
		return
	}

	d.Send("Huh?")
}

// actor resolves the character a descriptor is playing, or nil.
func (g *Game) actor(d *Descriptor) *worlddb.Entity {
	if d.Character == worlddb.Nothing {
		return nil
	}
	return g.World.Get(d.Character)
}

func (g *Game) isWizard(d *Descriptor) bool {
	actor := g.actor(d)
	return actor != nil && actor.Level >= g.Conf.WizLevel
}

func cmdSay(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	if args == "" {
		d.Send("Say what?")
		return
	}
	room := g.World.RoomOf(actor)
	d.Sendf("You say '%s'", args)
	g.Bus.EmitToRoomExcept(g.World, room, actor.ID, events.Event{
		Type:   events.EvSay,
		Source: actor.ID,
		Text:   fmt.Sprintf("%s says '%s'", capitalize(actor.Name), args),
	})
}

func cmdScore(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor == nil {
		return
	}
	d.Sendf("You are %s, level %d.", actor.Name, actor.Level)
	if actor.Char.CarryMax >= 0 {
		d.Sendf("You are carrying %d of %d weight.", worlddb.CarryWeight(g.World, actor), actor.Char.CarryMax)
	} else {
		d.Sendf("You are carrying %d weight.", worlddb.CarryWeight(g.World, actor))
	}
	for _, sv := range sortedStats(actor.Char.Stats) {
		d.Sendf("%s: %d", sv.name, sv.value)
	}
}

type statValue struct {
	name  string
	value int
}

func sortedStats(stats map[string]int) []statValue {
	result := make([]statValue, 0, len(stats))
	for name, value := range stats {
		result = append(result, statValue{name, value})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].name < result[j].name })
	return result
}

func cmdWho(g *Game, d *Descriptor, args string) {
	d.Send("Players online:")
	now := time.Now()
	count := 0
	for _, ch := range g.Conns.ConnectedCharacters() {
		e := g.World.Get(ch)
		if e == nil {
			continue
		}
		descs := g.Conns.GetByCharacter(ch)
		idle := ""
		if len(descs) > 0 {
			idle = FormatIdleTime(now.Sub(descs[0].LastCmd))
		}
		d.Sendf("  %-20s level %-3d idle %s", e.Name, e.Level, idle)
		count++
	}
	d.Sendf("%d player(s).", count)
}

func cmdQuit(g *Game, d *Descriptor, args string) {
	actor := g.actor(d)
	if actor != nil {
		g.Act("$n has left the game.", actor, nil, nil, ToRoom)
		log.WithField("character", actor.Name).Info("player quit")
	}
	d.Send("Goodbye.")
	g.Conns.Remove(d)
	d.Close()
}

func cmdGo(g *Game, d *Descriptor, args string) {
	if args == "" {
		d.Send("Go where?")
		return
	}
	if !g.tryExit(d, strings.ToLower(strings.Fields(args)[0])) {
		d.Send("You can't go that way.")
	}
}

// tryExit moves the actor through a room exit matching name, by exact
// or unambiguous prefix match. Returns false when no exit matches.
func (g *Game) tryExit(d *Descriptor, name string) bool {
	actor := g.actor(d)
	if actor == nil {
		return false
	}
	room := g.World.RoomOf(actor)
	if room == nil {
		return false
	}
	dir := matchExit(room, name)
	if dir == "" {
		return false
	}
	dest := g.World.Get(room.Exits[dir])
	if dest == nil {
		d.Send("That way leads nowhere.")
		return true
	}
	g.Act(fmt.Sprintf("$n leaves %s.", dir), actor, nil, nil, ToRoom)
	if err := g.World.Move(actor, dest); err != nil {
		log.WithError(err).WithField("character", actor.Name).Error("exit move failed")
		d.Send("You can't go that way.")
		return true
	}
	g.Act("$n has arrived.", actor, nil, nil, ToRoom)
	g.persist(actor, room, dest)
	g.showRoom(d, actor)
	return true
}

func matchExit(room *worlddb.Entity, name string) string {
	if _, ok := room.Exits[name]; ok {
		return name
	}
	dirs := make([]string, 0, len(room.Exits))
	for dir := range room.Exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		if strings.HasPrefix(dir, name) {
			return dir
		}
	}
	return ""
}
