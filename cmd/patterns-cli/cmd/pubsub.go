package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/patterns/internal/app"
	"github.com/nfrund/patterns/internal/pubsub"
	"github.com/nfrund/patterns/internal/salesoffice"
	"github.com/nfrund/patterns/internal/script"
)

// bridgeWait bounds how long demo waits for the bridged copy of a publish.
const bridgeWait = 2 * time.Second

func newPubSubCmd(rt *runtime) *cobra.Command {
	pubsubCmd := &cobra.Command{
		Use:   "pubsub",
		Short: "Work with the event registry",
		Long: `The pubsub command drives the in-process event registry: handlers subscribe to
topics, can be unsubscribed one at a time or all at once, and every publish runs
the remaining handlers in subscription order before returning.

Available subcommands:
  demo      Run the sales office scenario
  script    Subscribe a Tengo script to a topic and publish to it`,
	}

	pubsubCmd.AddCommand(newDemoCmd(rt), newScriptCmd(rt))
	return pubsubCmd
}

func newDemoCmd(rt *runtime) *cobra.Command {
	var (
		size  int
		price int
	)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the sales office scenario",
		Long: `Two buyers subscribe to price announcements for the same flat size. The first
one unsubscribes, then the office announces a price: only the second buyer hears it.

When BRIDGE_ENABLED is set, the topic is also forwarded onto the message bus and
the bridged payload is printed.

Examples:
  patterns-cli pubsub demo
  patterns-cli pubsub demo --size 110 --price 3000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			office := rt.container.SalesOffice()
			topic := salesoffice.Topic(size)

			fn1 := salesoffice.PriceListener("fn1", out, "$")
			fn2 := salesoffice.PriceListener("fn2", out, "¥")
			office.Subscribe(topic, fn1)
			office.Subscribe(topic, fn2)
			office.Unsubscribe(topic, fn1)

			bridged, err := bridgeTopic(cmd.Context(), rt.container, topic)
			if err != nil {
				return err
			}

			if _, err := office.AnnouncePrice(size, price); err != nil {
				return err
			}

			if bridged != nil {
				select {
				case msg := <-bridged:
					fmt.Fprintf(out, "bridged %s: %s\n", msg.Topic, msg.Payload)
				case <-time.After(bridgeWait):
					return fmt.Errorf("no bridged message for %s within %s", topic, bridgeWait)
				}
			}
			return nil
		},
	}

	demoCmd.Flags().IntVar(&size, "size", 88, "Flat size in square meters")
	demoCmd.Flags().IntVar(&price, "price", 2000000, "Price to announce")
	return demoCmd
}

// bridgeTopic forwards topic onto the message bus and returns a channel
// receiving the bridged messages. It returns nil when the bridge is disabled.
func bridgeTopic(ctx context.Context, c *app.Container, topic string) (<-chan pubsub.Message, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	bridge, err := c.Bridge()
	if errors.Is(err, app.ErrBridgeDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	received := make(chan pubsub.Message, 1)
	err = bridge.Subscribe(ctx, topic, func(ctx context.Context, msg pubsub.Message) error {
		select {
		case received <- msg:
		default:
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe bridge to %s: %w", topic, err)
	}

	fwd, err := c.Forwarder(ctx)
	if err != nil {
		return nil, err
	}
	fwd.Forward(topic)
	return received, nil
}

func newScriptCmd(rt *runtime) *cobra.Command {
	var (
		file  string
		topic string
	)

	scriptCmd := &cobra.Command{
		Use:   "script --file <path> --topic <topic> [args...]",
		Short: "Subscribe a Tengo script to a topic and publish to it",
		Long: `Load a Tengo script, subscribe it to a topic and publish the remaining arguments.
Inside the script, "args" holds the published arguments and "topic" the topic
name. Whatever the script assigns to "result" is printed.

Arguments that parse as integers or floats are passed as numbers.

Examples:
  patterns-cli pubsub script --file discount.tengo --topic squareMeter88 2000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.LoadFile(afero.NewOsFs(), file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sh, err := rt.container.ScriptEngine().NewHandler(ctx, topic, s)
			if err != nil {
				return err
			}

			reg := rt.container.Registry()
			reg.Subscribe(topic, sh.Handle())
			defer reg.Unsubscribe(topic, sh.Handle())

			values := make([]any, len(args))
			for i, arg := range args {
				values[i] = parseArg(arg)
			}
			if _, err := reg.Publish(topic, values...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "result: %v\n", sh.LastResult())
			return nil
		},
	}

	scriptCmd.Flags().StringVarP(&file, "file", "f", "", "Path to the Tengo script")
	scriptCmd.Flags().StringVarP(&topic, "topic", "t", "script", "Topic to subscribe and publish on")
	_ = scriptCmd.MarkFlagRequired("file")
	return scriptCmd
}

// parseArg turns a command-line argument into an int, a float64, or leaves it
// as a string.
func parseArg(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
