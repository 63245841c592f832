// Package frame provides one-shot tasks bound to a frame boundary.
//
// A task is armed any number of times during a frame and runs exactly once
// when the owner calls RunPending at its pre-physics point, after which it
// is deregistered until armed again.
package frame

import "sync"

// Task is work deferred to the next frame boundary.
type Task interface {
	RunTask()
}

// TaskFunc adapts a function to Task.
type TaskFunc func()

// RunTask implements Task.
func (f TaskFunc) RunTask() { f() }

// Arming is the part of a scheduler that edit paths need.
type Arming interface {
	// Arm queues t for the next RunPending. Re-arming a pending task is a
	// no-op and reports false.
	Arm(t Task) bool
}

// Scheduler holds armed tasks until the next frame boundary.
type Scheduler struct {
	mu      sync.Mutex
	pending []Task
	armed   map[Task]struct{}
	frame   uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{armed: make(map[Task]struct{})}
}

// Arm implements Arming. t must be comparable (pointer types are).
func (s *Scheduler) Arm(t Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.armed[t]; ok {
		return false
	}
	s.armed[t] = struct{}{}
	s.pending = append(s.pending, t)
	return true
}

// IsArmed reports whether t is waiting for the next frame boundary.
func (s *Scheduler) IsArmed(t Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.armed[t]
	return ok
}

// Pending returns the number of armed tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Frame returns how many times RunPending has been called.
func (s *Scheduler) Frame() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// RunPending runs every armed task once in arming order and deregisters
// it. Tasks armed while running wait for the following call.
func (s *Scheduler) RunPending() int {
	s.mu.Lock()
	tasks := s.pending
	s.pending = nil
	clear(s.armed)
	s.frame++
	s.mu.Unlock()

	for _, t := range tasks {
		t.RunTask()
	}
	return len(tasks)
}
