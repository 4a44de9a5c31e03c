package registry

// Subscriber handles registry event subscriptions.
type Subscriber struct {
	done                      chan struct{}
	eligibilityGrantedHandler func(EligibilityGranted)
	grantCreatedHandler       func(GrantCreated)
	grantClaimedHandler       func(GrantClaimed)
}

// OnEligibilityGranted sets the handler for EligibilityGranted events
func OnEligibilityGranted(fn func(EligibilityGranted)) func(*Subscriber) {
	return func(s *Subscriber) { s.eligibilityGrantedHandler = fn }
}

// OnGrantCreated sets the handler for GrantCreated events
func OnGrantCreated(fn func(GrantCreated)) func(*Subscriber) {
	return func(s *Subscriber) { s.grantCreatedHandler = fn }
}

// OnGrantClaimed sets the handler for GrantClaimed events
func OnGrantClaimed(fn func(GrantClaimed)) func(*Subscriber) {
	return func(s *Subscriber) { s.grantClaimedHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the
// dispatch loop. Returns a closer function that waits for all events to be
// processed.
//
// The subscriber processes events until the events channel closes, then
// the closer function confirms all processing is complete:
//
//	closer := registry.NewSubscriber(svc.Events(),
//	  registry.OnGrantClaimed(func(e registry.GrantClaimed) { ... }),
//	)
//	defer closer()
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:                      make(chan struct{}),
		eligibilityGrantedHandler: func(EligibilityGranted) {}, // nop by default
		grantCreatedHandler:       func(GrantCreated) {},       // nop by default
		grantClaimedHandler:       func(GrantClaimed) {},       // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	// Start the dispatch loop immediately
	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case EligibilityGranted:
				s.eligibilityGrantedHandler(e)
			case GrantCreated:
				s.grantCreatedHandler(e)
			case GrantClaimed:
				s.grantClaimedHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}
