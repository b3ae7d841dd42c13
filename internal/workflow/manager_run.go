package workflow

import (
	"context"
	"errors"
	"time"

	"podium/internal/logging"
	"podium/internal/queue"
)

// Start begins background processing. Jobs stranded in a processing
// status by an unclean shutdown are rolled back first.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.stages) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	if reset, err := m.store.ResetStuckProcessing(ctx); err != nil {
		m.logger.Warn("reset stuck jobs failed", logging.Error(err))
	} else if reset > 0 {
		m.logger.Info("reset stuck jobs from previous run", logging.Int64("count", reset))
	}

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := m.heartbeat.ReclaimStaleJobs(ctx); err != nil {
			m.logger.Warn("reclaim stale processing failed; stuck jobs may remain",
				logging.Error(err))
		}

		job, err := m.store.NextForStatuses(ctx, m.statusOrder...)
		if err != nil {
			m.handleNextJobError(ctx, err)
			continue
		}
		if job == nil {
			m.waitForJobOrShutdown(ctx)
			continue
		}

		if err := m.processJob(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) handleNextJobError(ctx context.Context, err error) {
	m.setLastError(err)
	m.logger.Error("failed to fetch next queue job", logging.Error(err))
	select {
	case <-ctx.Done():
	case <-time.After(m.errorRetry):
	}
}

func (m *Manager) waitForJobOrShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(m.pollInterval):
	}
}

// WaitForIdle blocks until no job sits in a startable or processing
// status, or the context ends. Used by one-shot runs and tests.
func (m *Manager) WaitForIdle(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	busy := append([]queue.Status{}, m.statusOrder...)
	busy = append(busy, queue.StatusEnhancing, queue.StatusCompiling)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			job, err := m.store.NextForStatuses(ctx, busy...)
			if err != nil {
				return err
			}
			if job == nil {
				return nil
			}
		}
	}
}
