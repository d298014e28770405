package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nfrund/patterns/internal/app"
)

func newMemoCmd(rt *runtime) *cobra.Command {
	var (
		op     string
		repeat int
	)

	memoCmd := &cobra.Command{
		Use:   "memo [numbers...]",
		Short: "Call a memoized arithmetic function",
		Long: `Call the product or sum of the given numbers through a caching proxy.
Repeated calls with the same numbers are answered from the cache.

Examples:
  patterns-cli memo --op mult 1 2 3 4              # 24
  patterns-cli memo --op plus --repeat 3 1 2 3 4   # 10, two cache hits`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			switch op {
			case "mult":
				name = app.MemoMult
			case "plus":
				name = app.MemoPlus
			default:
				return fmt.Errorf("invalid op %q: valid ops are mult, plus", op)
			}
			if repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1, got %d", repeat)
			}

			numbers := make([]float64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
				numbers[i] = v
			}

			proxy, err := rt.container.Memo(name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := 0; i < repeat; i++ {
				fmt.Fprintln(out, strconv.FormatFloat(proxy.Call(numbers...), 'g', -1, 64))
			}
			stats := proxy.Stats()
			fmt.Fprintf(out, "hits=%d misses=%d\n", stats.Hits, stats.Misses)
			return nil
		},
	}

	memoCmd.Flags().StringVar(&op, "op", "mult", "Operation (mult, plus)")
	memoCmd.Flags().IntVar(&repeat, "repeat", 2, "How many times to call")
	return memoCmd
}
