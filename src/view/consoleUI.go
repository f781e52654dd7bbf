package view

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"evosim/src/engine"
	"evosim/src/world"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	e   engine.Controller
	g   *gocui.Gui
	k   []keyBindings
	err error
}

var (
	runningStateDescr = map[engine.RunningState]string{
		engine.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		engine.RunningStateStep:     "do the step",
		engine.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		engine.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal creates the interactive terminal viewer in 256-color mode
func NewViewTerminal() (*ConsoleUI, error) {
	t := ConsoleUI{}

	g, err := gocui.NewGui(gocui.Output256)
	if err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	t.g = g
	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextRound,
			""},
		{'r',
			"R",
			"Run",
			t.cmdRun,
			""},
		{'s',
			"S",
			"Stop",
			t.cmdStop,
			""},
		{'c',
			"C",
			"Clear",
			t.cmdClear,
			""},
		{'w',
			"W",
			"Populate at random",
			t.cmdPopulate,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Spawn/remove organism",
			t.cmdMouseClick,
			"board"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("key binding %s: %w", kb.name, err)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(e engine.Controller) {
	t.e = e
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		t.err = err
	}
}

//Err returns the error which stopped the main loop
func (t *ConsoleUI) Err() error {
	return t.err
}

func (t *ConsoleUI) Refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderField() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("board")
		if e != nil {
			return nil
		}
		//the entire field is redrawing at once
		v.Clear()

		maxW, maxH := v.Size()
		var b bytes.Buffer
		var err error
		crop := false
		t.e.View(func(board *world.Board) {
			if board.Width() > maxW || board.Height() > maxH {
				crop = true
				maxH--
			}
			err = RenderBoard(&b, board, maxW, maxH)
		})
		if err != nil {
			return err
		}
		if crop {
			b.WriteByte('\n')
			b.WriteString(aurora.Red("The board size is larger than the viewing area").BgBlack().String())
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	s := t.e.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Population", "%v", s.Population))
			_, _ = fmt.Fprintln(v, t.renderProp("Mutations", "%v", s.LastStep.Mutations))
			_, _ = fmt.Fprintln(v, t.renderProp("Moves", "%v", s.LastStep.Moves))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			if s.Err != nil {
				_, _ = fmt.Fprintln(v, " "+aurora.Red(s.Err.Error()).String())
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.e.Options()
		so := t.e.SimulationOptions()
		var w, h int
		t.e.View(func(b *world.Board) {
			w, h = b.Width(), b.Height()
		})
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", w, h))
			_, _ = fmt.Fprintln(v, t.renderProp("Population", "%v", so.Population))
			_, _ = fmt.Fprintln(v, t.renderProp("Genome size", "%v", so.GenomeSize))
			_, _ = fmt.Fprintln(v, t.renderProp("Mutation rate", "%v", so.MutationRate))
			_, _ = fmt.Fprintln(v, t.renderProp("Move rate", "%v", so.MoveRate))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("board")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "evosim: artificial life simulation"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("board", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Board"
		v.Frame = true
	}
	t.renderField()

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.e.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.e.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.e.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.e.Clear()
	return nil
}

func (t *ConsoleUI) cmdPopulate(_ *gocui.View) error {
	t.e.Start()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	t.e.ToggleCell(cx+ox, cy+oy)
	return nil
}
