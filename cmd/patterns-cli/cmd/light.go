package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/patterns/internal/events"
	"github.com/nfrund/patterns/internal/light"
)

func newLightCmd(rt *runtime) *cobra.Command {
	var presses int

	lightCmd := &cobra.Command{
		Use:   "light",
		Short: "Press the light switch",
		Long: `Press a two-state light switch a number of times and print the button label
and state after each press.

Examples:
  patterns-cli light --presses 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if presses < 0 {
				return fmt.Errorf("--presses must not be negative, got %d", presses)
			}

			out := cmd.OutOrStdout()
			reg := rt.container.Registry()
			watcher := events.NewNamedHandler("light-watcher", func(args ...any) error {
				_, err := fmt.Fprintf(out, "state: %v\n", args[0])
				return err
			})
			reg.Subscribe(light.TopicSwitched, watcher)
			defer reg.Unsubscribe(light.TopicSwitched, watcher)

			button := &light.LabelRecorder{}
			l := rt.container.Light(button)
			l.Init()
			fmt.Fprintf(out, "label: %s\n", button.Current())

			for i := 0; i < presses; i++ {
				if err := l.Press(); err != nil {
					return err
				}
				fmt.Fprintf(out, "label: %s\n", button.Current())
			}
			return nil
		},
	}

	lightCmd.Flags().IntVar(&presses, "presses", 2, "Number of presses")
	return lightCmd
}
