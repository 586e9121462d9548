// Package state tracks the server lifecycle: Initializing -> Serving.
package state

import (
	"sync"
)

type State int

const (
	Initializing State = iota
	Serving
	Stopped
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Serving:
		return "Serving"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Manager 使用 RWMutex 保护对状态的并发读写。
type Manager struct {
	mu    sync.RWMutex
	state State
}

// Set 方法用于安全地更新状态。
func (m *Manager) Set(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// Get 方法用于安全地读取状态。
func (m *Manager) Get() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
