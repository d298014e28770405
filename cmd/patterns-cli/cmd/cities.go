package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/patterns/internal/adapter"
)

func newCitiesCmd() *cobra.Command {
	var file string

	citiesCmd := &cobra.Command{
		Use:   "cities",
		Short: "Render the city map",
		Long: `Render a list of cities as JSON. Without --file the built-in Guangdong list is
used. With --file, the file must hold the legacy format, a JSON object mapping
city name to ID, which is adapted before rendering.

Examples:
  patterns-cli cities
  patterns-cli cities --file guangdong.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := adapter.Source(adapter.Guangdong)
			if file != "" {
				source = adapter.AdaptMap(adapter.FileSource(afero.NewOsFs(), file))
			}

			out := cmd.OutOrStdout()
			if err := adapter.Render(out, source); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	citiesCmd.Flags().StringVarP(&file, "file", "f", "", "Legacy city file (JSON object of name to ID)")
	return citiesCmd
}
