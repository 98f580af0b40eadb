package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the skills taxonomy and career profiles in use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		c, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		section, _ := cmd.Flags().GetString("section")
		var out any
		switch section {
		case "skills":
			out = map[string]any{"skills": c.Categories()}
		case "careers":
			out = map[string]any{"careers": c.Careers()}
		case "":
			out = map[string]any{"skills": c.Categories(), "careers": c.Careers()}
		default:
			return fmt.Errorf("unknown section %q (want skills or careers)", section)
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringP("section", "s", "", "only print skills or careers")
}
