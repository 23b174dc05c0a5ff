package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vitae/pkg/render/skin"
)

// templatesCommand lists the template skins.
func (c *CLI) templatesCommand() *cobra.Command {
	var tierStr string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tier skin.Tier
			if tierStr != "" {
				t, err := skin.ParseTier(tierStr)
				if err != nil {
					return err
				}
				tier = t
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := registry(cfg)
			if err != nil {
				return err
			}
			writeTemplates(cmd.OutOrStdout(), reg.List(), tier)
			return nil
		},
	}
	cmd.Flags().StringVar(&tierStr, "tier", "", "mark which templates a tier may use (FREE, PRO, CAREER)")
	return cmd
}

// writeTemplates prints skins as a table. With a tier, an extra column
// shows whether that tier may use each skin.
func writeTemplates(w io.Writer, skins []*skin.Skin, tier skin.Tier) {
	headers := []string{"ID", "Name", "Tier", "Font", "Description"}
	if tier != "" {
		headers = append(headers, string(tier))
	}

	rows := make([][]string, 0, len(skins))
	for _, s := range skins {
		row := []string{s.ID, s.Name, string(s.Tier), s.Font, s.Description}
		if tier != "" {
			mark := iconError
			if tier.Allows(s.Tier) {
				mark = iconSuccess
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}

	t := newTable(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case col == 0:
				return base.Foreground(colorCyan)
			case col == 2 && rows[row][2] == string(skin.TierFree):
				return base.Foreground(colorGreen)
			case col == 5 && rows[row][5] == iconError:
				return base.Foreground(colorRed)
			case col == 5:
				return base.Foreground(colorGreen)
			}
			return base
		})
	fmt.Fprintln(w, t.Render())
}
