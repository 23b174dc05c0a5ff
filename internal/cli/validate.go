package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/resume"
)

// validateCommand checks a resume file without rendering it.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a resume file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resume.Load(args[0])
			if err != nil {
				printError("%s", args[0])
				return err
			}
			if err := resume.Validate(res); err != nil {
				printError("%s", args[0])
				return err
			}

			d := plan.Plan(res)
			printSuccess("%s is valid", args[0])
			printKeyValue("Name", res.Name)
			printKeyValue("Education", fmt.Sprint(len(res.Education)))
			printKeyValue("Experience", fmt.Sprint(countEntries(res)))
			printKeyValue("Sections", fmt.Sprint(len(d.Headings())))
			if res.ContactLine1 == "" && res.ContactLine2 == "" {
				printWarning("no contact lines")
			}
			printNextStep("Render it", "vitae render "+args[0])
			return nil
		},
	}
}

func countEntries(r *resume.Resume) int {
	n := 0
	for _, s := range r.ExperienceSections {
		n += len(s.Entries)
	}
	return n
}
