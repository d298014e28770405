// Package events provides an in-process event channel registry.
//
// A Registry maps topic names to ordered lists of subscriber handles. Handlers
// are invoked synchronously, in subscription order, on the goroutine that calls
// Publish.
//
// Usage:
//
//	reg := events.NewRegistry()
//	h := events.NewHandler(func(args ...any) error {
//		fmt.Println("price:", args[0])
//		return nil
//	})
//	reg.Subscribe("squareMeter88", h)
//	ok, err := reg.Publish("squareMeter88", 2000000)
//
// Handles are compared by pointer. Keep the *Handler returned by NewHandler if
// you intend to unsubscribe it later.
package events
