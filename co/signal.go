// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides channel to wait for.
type Waiter interface {
	// C returns a channel closed at the next broadcast. Each call moves the
	// waiter past the broadcasts it has already seen.
	C() <-chan struct{}
}

// Signal announces an event to every waiting goroutine by closing a channel,
// so waiting can be part of a select.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all goroutines that are waiting on s.
func (s *Signal) Broadcast() {
	s.l.Lock()
	close(s.current())
	s.ch = make(chan struct{})
	s.l.Unlock()
}

// NewWaiter create a Waiter object for acquiring channel to wait for.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	ref := s.current()
	s.l.Unlock()

	return waiterFunc(func() (ch <-chan struct{}) {
		ch = ref

		s.l.Lock()
		ref = s.current()
		s.l.Unlock()
		return
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
