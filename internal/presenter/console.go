// Package presenter renders engine events for a terminal
package presenter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"mapwalker/internal/core"
	"mapwalker/internal/graph"
	"mapwalker/internal/hooks"
	"mapwalker/internal/planner"

	"github.com/gookit/color"
)

var (
	colorRoom    = color.Style{color.FgCyan, color.OpBold}
	colorTitle   = color.Style{color.FgWhite, color.OpBold}
	colorSubtle  = color.Style{color.FgGray}
	colorItem    = color.Style{color.FgGreen, color.OpBold}
	colorUnknown = color.Style{color.FgYellow}
	colorStatus  = color.Style{color.FgMagenta}
)

// Console is a core.EventSink writing coloured lines
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) RoomChanged(room core.Room) {
	var b strings.Builder
	b.WriteString(colorRoom.Sprintf("[%d]", room.ID))
	if room.Meta.Title != "" {
		b.WriteString(" " + colorTitle.Sprint(room.Meta.Title))
	}
	if room.Meta.Terrain != "" {
		b.WriteString(" " + colorSubtle.Sprintf("(%s)", strings.ToLower(room.Meta.Terrain)))
	}

	exits := make([]string, 0, len(room.Exits))
	for _, e := range room.Exits {
		if to, ok := e.State.Target(); ok {
			exits = append(exits, fmt.Sprintf("%s=%d", e.Direction, to))
		} else {
			exits = append(exits, colorUnknown.Sprintf("%s=?", e.Direction))
		}
	}
	b.WriteString("  exits: " + strings.Join(exits, " "))

	if len(room.Meta.Items) > 0 {
		b.WriteString("  items: " + colorItem.Sprint(strings.Join(room.Meta.Items, ", ")))
	}
	c.println(b.String())
}

func (c *Console) Status(message string) {
	c.println(colorStatus.Sprint("» ") + message)
}

// Path prints a planned route
func (c *Console) Path(from core.RoomID, path planner.Path) {
	if len(path) == 0 {
		c.println(colorSubtle.Sprintf("already in room %d", from))
		return
	}
	steps := make([]string, 0, len(path))
	for _, step := range path {
		steps = append(steps, fmt.Sprintf("%s→%d", step.Direction, step.To))
	}
	c.println(colorRoom.Sprintf("[%d]", from) + " " + strings.Join(steps, " ") +
		colorSubtle.Sprintf("  (%d moves)", len(path)))
}

// Stats prints how much of the graph is known
func (c *Console) Stats(stats graph.Stats) {
	c.println(fmt.Sprintf("%s rooms, %s resolved exits, %s unexplored exits",
		colorRoom.Sprint(stats.Rooms), colorItem.Sprint(stats.Resolved), colorUnknown.Sprint(stats.Unknown)))
}

// Landmarks lists the named rooms, marking the ones already discovered
func (c *Console) Landmarks(landmarks []hooks.Landmark, known func(core.RoomID) bool) {
	for _, l := range landmarks {
		mark := colorUnknown.Sprint("unexplored")
		if known(l.Room) {
			mark = colorItem.Sprint("known")
		}
		c.println(fmt.Sprintf("%s %s  %s", colorRoom.Sprintf("%4d", l.Room), l.Name, mark))
	}
}

func (c *Console) Examination(exam core.Examination) {
	c.println(colorTitle.Sprint(exam.Name))
	c.println(exam.Description)
}

func (c *Console) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}
