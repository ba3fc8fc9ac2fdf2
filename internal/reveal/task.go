package reveal

type taskState int

const (
	taskPending taskState = iota
	taskResolved
	taskCanceled
)

// Task is an eventual value with an attached cancel operation.
//
// A task settles at most once: either its resolver is called, or it is
// canceled. Cancellation abandons the task; waiters registered with Then are
// dropped and never observe a value. Cancel after resolution does nothing.
//
// Tasks are not safe for concurrent use; they live on the loop goroutine.
type Task[T any] struct {
	cancel  func()
	state   taskState
	value   T
	waiters []func(T)
}

// NewTask returns a pending task and the function that resolves it. cancel
// runs on the first effective Cancel and may be nil.
func NewTask[T any](cancel func()) (*Task[T], func(T)) {
	t := &Task[T]{cancel: cancel}
	return t, t.resolve
}

// abandoned returns a task that is already canceled. Phases hand it out when
// there is nothing to animate into.
func abandoned[T any]() *Task[T] {
	return &Task[T]{state: taskCanceled}
}

func (t *Task[T]) resolve(v T) {
	if t.state != taskPending {
		return
	}
	t.state = taskResolved
	t.value = v
	waiters := t.waiters
	t.waiters = nil
	for _, fn := range waiters {
		fn(v)
	}
}

// Then registers fn to receive the value. If the task already resolved, fn
// runs immediately; if it was canceled, fn never runs.
func (t *Task[T]) Then(fn func(T)) {
	switch t.state {
	case taskResolved:
		fn(t.value)
	case taskPending:
		t.waiters = append(t.waiters, fn)
	}
}

// Cancel abandons a pending task and runs its cancel operation. It is safe to
// call any number of times.
func (t *Task[T]) Cancel() {
	if t.state != taskPending {
		return
	}
	t.state = taskCanceled
	t.waiters = nil
	if t.cancel != nil {
		t.cancel()
	}
}

// Resolved reports whether the task completed with a value.
func (t *Task[T]) Resolved() bool {
	return t.state == taskResolved
}

// Canceled reports whether the task was abandoned.
func (t *Task[T]) Canceled() bool {
	return t.state == taskCanceled
}

// Pending reports whether the task has not settled yet.
func (t *Task[T]) Pending() bool {
	return t.state == taskPending
}

// Value returns the resolved value and whether there is one.
func (t *Task[T]) Value() (T, bool) {
	return t.value, t.state == taskResolved
}
