package feed

// Subscriber handles feed event subscriptions.
type Subscriber struct {
	done                 chan struct{}
	deliveryHandler      func(Delivery)
	replayStartedHandler func(ReplayStarted)
	replayBatchHandler   func(ReplayBatchDelivered)
	replayDoneHandler    func(ReplayDone)
	replayErrorHandler   func(ReplayError)
	tailStartedHandler   func(TailStarted)
	tailBatchHandler     func(TailBatchDelivered)
	tailShutdownHandler  func(TailShutdown)
	tailErrorHandler     func(TailError)
}

// OnDelivery sets the handler for delivered registry events
func OnDelivery(fn func(Delivery)) func(*Subscriber) {
	return func(s *Subscriber) { s.deliveryHandler = fn }
}

// OnReplayStarted sets the handler for ReplayStarted events
func OnReplayStarted(fn func(ReplayStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.replayStartedHandler = fn }
}

// OnReplayBatchDelivered sets the handler for ReplayBatchDelivered events
func OnReplayBatchDelivered(fn func(ReplayBatchDelivered)) func(*Subscriber) {
	return func(s *Subscriber) { s.replayBatchHandler = fn }
}

// OnReplayDone sets the handler for ReplayDone events
func OnReplayDone(fn func(ReplayDone)) func(*Subscriber) {
	return func(s *Subscriber) { s.replayDoneHandler = fn }
}

// OnReplayError sets the handler for ReplayError events
func OnReplayError(fn func(ReplayError)) func(*Subscriber) {
	return func(s *Subscriber) { s.replayErrorHandler = fn }
}

// OnTailStarted sets the handler for TailStarted events
func OnTailStarted(fn func(TailStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.tailStartedHandler = fn }
}

// OnTailBatchDelivered sets the handler for TailBatchDelivered events
func OnTailBatchDelivered(fn func(TailBatchDelivered)) func(*Subscriber) {
	return func(s *Subscriber) { s.tailBatchHandler = fn }
}

// OnTailShutdown sets the handler for TailShutdown events
func OnTailShutdown(fn func(TailShutdown)) func(*Subscriber) {
	return func(s *Subscriber) { s.tailShutdownHandler = fn }
}

// OnTailError sets the handler for TailError events
func OnTailError(fn func(TailError)) func(*Subscriber) {
	return func(s *Subscriber) { s.tailErrorHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the
// dispatch loop. Returns a closer function that waits for all events to be
// processed.
//
// Use defer closer() immediately to guarantee all events are handled
// before function exit:
//
//	closer := feed.NewSubscriber(events,
//	  feed.OnDelivery(func(d feed.Delivery) { ... }),
//	)
//	defer closer()
//
// The subscriber processes events until the events channel closes,
// then the closer function confirms all processing is complete.
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:                 make(chan struct{}),
		deliveryHandler:      func(Delivery) {},             // nop by default
		replayStartedHandler: func(ReplayStarted) {},        // nop by default
		replayBatchHandler:   func(ReplayBatchDelivered) {}, // nop by default
		replayDoneHandler:    func(ReplayDone) {},           // nop by default
		replayErrorHandler:   func(ReplayError) {},          // nop by default
		tailStartedHandler:   func(TailStarted) {},          // nop by default
		tailBatchHandler:     func(TailBatchDelivered) {},   // nop by default
		tailShutdownHandler:  func(TailShutdown) {},         // nop by default
		tailErrorHandler:     func(TailError) {},            // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	// Start the dispatch loop immediately
	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case Delivery:
				s.deliveryHandler(e)
			case ReplayStarted:
				s.replayStartedHandler(e)
			case ReplayBatchDelivered:
				s.replayBatchHandler(e)
			case ReplayDone:
				s.replayDoneHandler(e)
			case ReplayError:
				s.replayErrorHandler(e)
			case TailStarted:
				s.tailStartedHandler(e)
			case TailBatchDelivered:
				s.tailBatchHandler(e)
			case TailShutdown:
				s.tailShutdownHandler(e)
			case TailError:
				s.tailErrorHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}
