// Package workers provides abstractions for managing background workers.
// It defines the Worker interface and a Workers aggregate that runs and
// stops multiple workers in a unified way.
package workers

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker's execution and returns once its background
// goroutines are launched. Stop signals them to exit and blocks until the
// worker has fully terminated.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Run()  { /* launch background processing */ }
//	func (w *MyWorker) Stop() { w.cancel() }
type Worker interface {
	Run()
	Stop()
}
