package assessment

import (
	"sync"
	"time"
)

// TimeoutAnswer is submitted on behalf of the user when the countdown
// expires with nothing typed.
const TimeoutAnswer = "No answer provided (time limit exceeded)"

// QuestionTimer pairs the two per-question clocks: the elapsed stopwatch
// whose final value becomes the answer's timeSpent, and the countdown
// that forces a submission when it reaches zero. Both advance on the
// same one-second cadence. One instance serves exactly one displayed
// question; advancing to the next question means stopping this timer and
// starting a fresh one, so a superseded countdown can never fire into a
// newer question's state.
type QuestionTimer struct {
	mu         sync.Mutex
	questionID string
	elapsed    int
	remaining  int
	stopped    bool

	interval  time.Duration
	stopCh    chan struct{}
	onTick    func(questionID string, remaining, elapsed int)
	onTimeout func(questionID string, elapsed int)
}

// NewQuestionTimer builds a timer with a full budget. Callbacks may be
// nil. The timer does not run until Start is called; tests drive tick
// directly instead.
func NewQuestionTimer(questionID string, budget int, interval time.Duration,
	onTick func(questionID string, remaining, elapsed int),
	onTimeout func(questionID string, elapsed int)) *QuestionTimer {
	return &QuestionTimer{
		questionID: questionID,
		remaining:  budget,
		interval:   interval,
		stopCh:     make(chan struct{}),
		onTick:     onTick,
		onTimeout:  onTimeout,
	}
}

// Start runs the tick loop in its own goroutine until timeout or Stop.
func (t *QuestionTimer) Start() {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if done := t.tick(); done {
					return
				}
			case <-t.stopCh:
				return
			}
		}
	}()
}

// tick advances both clocks by one second and reports whether the timer
// is finished. A stopped timer ignores ticks. The timeout callback fires
// at most once, when the countdown hits zero.
func (t *QuestionTimer) tick() bool {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return true
	}
	t.elapsed++
	t.remaining--
	remaining := t.remaining
	elapsed := t.elapsed
	timedOut := remaining <= 0
	if timedOut {
		t.stopped = true
	}
	t.mu.Unlock()

	// Callbacks run without the lock so they can call back into Stop or
	// the submission path.
	if !timedOut && t.onTick != nil {
		t.onTick(t.questionID, remaining, elapsed)
	}
	if timedOut {
		if t.onTimeout != nil {
			t.onTimeout(t.questionID, elapsed)
		}
		return true
	}
	return false
}

// Stop halts both clocks and returns the stopwatch's final value. It is
// idempotent; a second Stop returns the same elapsed reading.
func (t *QuestionTimer) Stop() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stopped {
		t.stopped = true
		close(t.stopCh)
	}
	return t.elapsed
}

// Elapsed returns the stopwatch reading so far.
func (t *QuestionTimer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Remaining returns the countdown reading so far.
func (t *QuestionTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}
