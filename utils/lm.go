package utils

import "sync"

// LoopMode manages the long-term running goroutines of a struct.
// The struct calls StartWorking() in its setup function and Stop() in its cleanup function.
// Each goroutine is registered before it starts and works like:
/*
	lm.Add()
	go func() {
		defer lm.Done()
		for {
			select {
			case <-lm.D:
				return
			// case :...other goroutine logic
			}
		}
	}()
*/
// Stop waits for the goroutines, so never call it from one of them; use `go Stop()`.
type LoopMode struct {
	mutex     sync.Mutex
	working   bool
	waitGroup sync.WaitGroup
	// D is closed by Stop
	D chan struct{}
}

func NewLoop() *LoopMode {
	return &LoopMode{
		D: make(chan struct{}),
	}
}

func (l *LoopMode) StartWorking() {
	l.mutex.Lock()
	l.working = true
	l.mutex.Unlock()
}

// Stop stops the goroutines. It returns false if the loop was not working.
func (l *LoopMode) Stop() bool {
	l.mutex.Lock()
	if !l.working {
		l.mutex.Unlock()
		return false
	}
	l.working = false
	close(l.D)
	l.mutex.Unlock()

	l.waitGroup.Wait()
	return true
}

func (l *LoopMode) Add() {
	l.waitGroup.Add(1)
}

func (l *LoopMode) Done() {
	l.waitGroup.Done()
}

func (l *LoopMode) IsWorking() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.working
}
