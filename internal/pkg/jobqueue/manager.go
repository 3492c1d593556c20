package jobqueue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/castboard/castboard/internal/pkg/env"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue        *Queue
	reportTicker *time.Ticker
	stopCh       chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
	running      bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once

	defaultMailer   Mailer
	defaultMailerMu sync.Mutex
)

// SetDefaultMailer sets the mailer used by the global queue. Must be called
// before the first GetManager.
func SetDefaultMailer(m Mailer) {
	defaultMailerMu.Lock()
	defer defaultMailerMu.Unlock()
	defaultMailer = m
}

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 3
		if v, err := strconv.Atoi(env.GetEnv("JOBQUEUE_WORKERS", "3")); err == nil && v > 0 {
			workerCount = v
		}

		defaultMailerMu.Lock()
		mailer := defaultMailer
		defaultMailerMu.Unlock()

		globalManager = &Manager{
			queue:  NewQueue(workerCount, mailer),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	m.queue.Start()

	// Periodic depth report so a stalled mail backlog shows up in the logs.
	m.reportTicker = time.NewTicker(5 * time.Minute)
	m.wg.Add(1)
	go m.reportWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.reportTicker != nil {
		m.reportTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// reportWorker logs queue depth at a coarse interval
func (m *Manager) reportWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Report worker stopping")
			return
		case <-m.reportTicker.C:
			ctx := context.Background()
			pending, err := m.queue.GetQueueSize(ctx)
			if err != nil {
				log.Errorf("[JobQueue Manager] Queue size error: %v", err)
				continue
			}
			processing, _ := m.queue.GetProcessingSize(ctx)
			if pending > 0 || processing > 0 {
				log.Infof("[JobQueue Manager] Queue depth: %d pending, %d processing", pending, processing)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
