package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vitae/pkg/pipeline"
	"github.com/matzehuels/vitae/pkg/render/sink/preview"
	"github.com/matzehuels/vitae/pkg/resume"
)

// watchInterval is how often the interactive preview checks the file.
const watchInterval = time.Second

type previewOpts struct {
	template    string
	tailoring   string
	width       int
	interactive bool
}

// previewCommand draws a resume in the terminal.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Preview a resume in the terminal",
		Long: `Preview draws the resume as it would appear on screen, with an optional
job-match overlay. With --interactive the file is watched and redrawn on
every save; arrow keys switch templates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.template, "template", "t", pipeline.DefaultTemplate, "template skin")
	cmd.Flags().StringVar(&opts.tailoring, "tailoring", "", "tailoring result to overlay")
	cmd.Flags().IntVarP(&opts.width, "width", "w", preview.DefaultTerminalWidth, "output width in columns")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "watch the file and redraw on change")
	_ = cmd.RegisterFlagCompletionFunc("template", completeTemplates)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, path string, opts *previewOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	if _, err := runner.Registry.Lookup(opts.template); err != nil {
		return err
	}

	state := preview.NewState(preview.WithClearOnMessage(cfg.ClearOverlayOnMessage))
	res, err := resume.Load(path)
	if err != nil {
		return err
	}
	state.UpdateResume(res)

	var tailoring *resume.Tailoring
	if opts.tailoring != "" {
		if tailoring, err = resume.LoadTailoring(opts.tailoring); err != nil {
			return err
		}
		if err := resume.ValidateTailoring(tailoring); err != nil {
			return err
		}
		state.UpdateTailoring(tailoring)
	}

	if !opts.interactive {
		out, err := drawPreview(runner, state, opts.template, opts.width)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	m := newPreviewModel(runner, state, path, opts.template, tailoring)
	m.width = opts.width
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// drawPreview renders the state's current snapshot for a terminal.
func drawPreview(runner *pipeline.Runner, state *preview.State, template string, width int) (string, error) {
	sk, err := runner.Registry.Lookup(template)
	if err != nil {
		return "", err
	}
	res, _ := state.Snapshot()
	if res == nil {
		return preview.RenderTerminal(nil, nil, width), nil
	}
	d, err := runner.Plan(res)
	if err != nil {
		return "", err
	}
	return preview.RenderTerminal(preview.Build(d, sk), state.Overlay(), width), nil
}

// =============================================================================
// previewModel - interactive preview
// =============================================================================

type tickMsg time.Time

// fileMsg carries a reloaded resume (or the error loading it).
type fileMsg struct {
	res     *resume.Resume
	modTime time.Time
	err     error
}

type previewModel struct {
	runner    *pipeline.Runner
	state     *preview.State
	path      string
	tailoring *resume.Tailoring // original overlay, restored with "o"

	templates []string
	current   int

	width  int
	height int
	offset int

	modTime time.Time
	status  string
	err     error
}

func newPreviewModel(runner *pipeline.Runner, state *preview.State, path, template string, tailoring *resume.Tailoring) previewModel {
	ids := runner.Registry.IDs()
	cur := slices.Index(ids, template)
	if cur < 0 {
		cur = 0
	}
	m := previewModel{
		runner:    runner,
		state:     state,
		path:      path,
		tailoring: tailoring,
		templates: ids,
		current:   cur,
		width:     preview.DefaultTerminalWidth,
		height:    40,
	}
	if fi, err := os.Stat(path); err == nil {
		m.modTime = fi.ModTime()
	}
	return m
}

func (m previewModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(watchInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// checkFile reloads the resume when its modification time moved.
func checkFile(path string, since time.Time) tea.Cmd {
	return func() tea.Msg {
		fi, err := os.Stat(path)
		if err != nil {
			return fileMsg{err: err}
		}
		if !fi.ModTime().After(since) {
			return nil
		}
		res, err := resume.Load(path)
		if err == nil {
			err = resume.Validate(res)
		}
		return fileMsg{res: res, modTime: fi.ModTime(), err: err}
	}
}

func (m previewModel) template() string {
	return m.templates[m.current]
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "tab":
			m.current = (m.current + 1) % len(m.templates)
			m.offset = 0
		case "left", "h", "shift+tab":
			m.current = (m.current - 1 + len(m.templates)) % len(m.templates)
			m.offset = 0
		case "down", "j":
			m.offset++
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "c":
			m.state.ClearTailoring()
			m.status = "overlay cleared"
		case "o":
			if m.tailoring != nil {
				m.state.UpdateTailoring(m.tailoring)
				m.status = "overlay restored"
			}
		case "r":
			return m, checkFile(m.path, time.Time{})
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tea.Batch(checkFile(m.path, m.modTime), tick())
	case fileMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.modTime = msg.modTime
		m.state.UpdateResume(msg.res)
		m.state.OnMessage(false)
		m.status = "reloaded " + msg.modTime.Format("15:04:05")
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Preview") + " " + StyleValue.Render(m.template()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.current+1, len(m.templates))))
	if m.status != "" {
		b.WriteString("  " + StyleDim.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ template  ↑/↓ scroll  c clear overlay  o restore  r reload  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n\n")
	}

	body, err := drawPreview(m.runner, m.state, m.template(), m.width)
	if err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + err.Error())
		return b.String()
	}

	lines := strings.Split(body, "\n")
	visible := m.height - lipgloss.Height(b.String())
	if visible < 5 {
		visible = 5
	}
	start := min(m.offset, max(len(lines)-visible, 0))
	end := min(start+visible, len(lines))
	b.WriteString(strings.Join(lines[start:end], "\n"))
	return b.String()
}
