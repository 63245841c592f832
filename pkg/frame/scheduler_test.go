package frame

import "testing"

type countTask struct {
	runs int
	then func()
}

func (c *countTask) RunTask() {
	c.runs++
	if c.then != nil {
		c.then()
	}
}

func TestArmIsIdempotent(t *testing.T) {
	s := NewScheduler()
	task := &countTask{}

	if !s.Arm(task) {
		t.Fatal("first Arm should report true")
	}
	for i := 0; i < 5; i++ {
		if s.Arm(task) {
			t.Fatal("re-arming a pending task should report false")
		}
	}
	if got := s.RunPending(); got != 1 {
		t.Errorf("RunPending() = %d, want 1", got)
	}
	if task.runs != 1 {
		t.Errorf("task ran %d times, want 1", task.runs)
	}
}

func TestTaskDeregistersAfterRun(t *testing.T) {
	s := NewScheduler()
	task := &countTask{}
	s.Arm(task)
	s.RunPending()

	if s.IsArmed(task) {
		t.Error("task should not be armed after running")
	}
	if got := s.RunPending(); got != 0 {
		t.Errorf("second RunPending() = %d, want 0", got)
	}
	if task.runs != 1 {
		t.Errorf("task ran %d times, want 1", task.runs)
	}
}

func TestArmDuringRunDefersToNextFrame(t *testing.T) {
	s := NewScheduler()
	task := &countTask{}
	task.then = func() {
		if task.runs == 1 {
			s.Arm(task)
		}
	}
	s.Arm(task)

	s.RunPending()
	if task.runs != 1 {
		t.Fatalf("task ran %d times in first frame, want 1", task.runs)
	}
	if !s.IsArmed(task) {
		t.Fatal("task re-armed during run should be pending")
	}
	s.RunPending()
	if task.runs != 2 {
		t.Errorf("task ran %d times, want 2", task.runs)
	}
	if s.Frame() != 2 {
		t.Errorf("Frame() = %d, want 2", s.Frame())
	}
}

func TestTaskFunc(t *testing.T) {
	s := NewScheduler()
	ran := false
	var f TaskFunc = func() { ran = true }
	s.Arm(&f)
	s.RunPending()
	if !ran {
		t.Error("TaskFunc should run")
	}
}
