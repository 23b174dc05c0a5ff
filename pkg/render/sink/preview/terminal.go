package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/vitae/pkg/render/plan"
)

// DefaultTerminalWidth is used when the caller passes a non-positive width.
const DefaultTerminalWidth = 80

var toneColors = map[Tone]lipgloss.Color{
	ToneEmerald: lipgloss.Color("#059669"),
	ToneAmber:   lipgloss.Color("#F59E0B"),
	ToneRed:     lipgloss.Color("#EF4444"),
}

var (
	termName    = lipgloss.NewStyle().Bold(true)
	termContact = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	termBold    = lipgloss.NewStyle().Bold(true)
	termItalic  = lipgloss.NewStyle().Italic(true)
	termEmpty   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// RenderTerminal draws t for a terminal of the given width, with the
// overlay (if any) above the document.
func RenderTerminal(t *Tree, o *Overlay, width int) string {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	if t == nil || t.Empty {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, termEmpty.Render(EmptyText))
	}

	accent := lipgloss.Color("#" + t.Accent)
	heading := lipgloss.NewStyle().Bold(true).Foreground(accent)
	rule := lipgloss.NewStyle().Foreground(accent)
	bullet := t.Bullet
	if bullet == "" {
		bullet = "•"
	}

	var lines []string
	if o != nil {
		lines = append(lines, renderOverlay(o, width), "")
	}

	lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, termName.Render(t.Name)))
	for _, c := range t.Contacts {
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, termContact.Render(c)))
	}

	for _, s := range t.Sections {
		lines = append(lines,
			"",
			heading.Render(strings.ToUpper(s.Title)),
			rule.Render(strings.Repeat("─", width)),
		)
		for _, it := range s.Items {
			switch {
			case it.TwoColumn():
				lines = append(lines, twoColumn(styledLeft(it.Left), it.Right, width))
			case it.Kind == plan.KindBullet:
				lines = append(lines, bulletLine(bullet, it.Text, width))
			default:
				lines = append(lines, termItalic.Render(it.Text))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func styledLeft(runs []plan.Run) string {
	var b strings.Builder
	for _, r := range runs {
		switch {
		case r.Bold:
			b.WriteString(termBold.Render(r.Text))
		case r.Italic:
			b.WriteString(termItalic.Render(r.Text))
		default:
			b.WriteString(r.Text)
		}
	}
	return b.String()
}

// twoColumn pads between left and right so right ends at width.
func twoColumn(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func bulletLine(glyph, text string, width int) string {
	prefix := "  " + glyph + " "
	body := lipgloss.NewStyle().Width(width - lipgloss.Width(prefix)).Render(text)
	indent := strings.Repeat(" ", lipgloss.Width(prefix))
	parts := strings.Split(body, "\n")
	for i := range parts {
		if i == 0 {
			parts[i] = prefix + parts[i]
		} else {
			parts[i] = indent + parts[i]
		}
	}
	return strings.Join(parts, "\n")
}

func renderOverlay(o *Overlay, width int) string {
	badge := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(toneColors[o.Badge.Tone]).
		Render(o.Badge.Text)

	var chips []string
	for _, c := range o.Chips {
		chips = append(chips, lipgloss.NewStyle().Foreground(toneColors[c.Tone]).Render(c.Text))
	}

	block := badge
	if len(chips) > 0 {
		block = lipgloss.JoinVertical(lipgloss.Right, badge, strings.Join(chips, " "))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}
