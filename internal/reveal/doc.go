// Package reveal sequences the overlay's two-phase reveal animation.
//
// Opening the overlay closes a pair of curtains (CurtainPhase) and then sweeps
// a staggered wave of bars across it (WavePhase). Sequence chains the two and
// guarantees that only one phase is running at any time. Reconciler maps
// open/close intent onto the sequence: it starts the reveal, aborts it
// instantly when closed mid-flight, or fades the settled overlay out.
//
// Every phase returns a Task, an eventual completion with a Cancel operation.
// Cancellation is synchronous: when Cancel returns, the phase has stopped its
// timers and frame callbacks, finished its animations and removed its nodes.
// Phase cleanup goes through Once so that natural completion and cancellation
// share one teardown path that runs exactly once.
//
// All of it runs on a single loop.Scheduler goroutine.
package reveal
