package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"podium/internal/config"
	"podium/internal/logging"
	"podium/internal/queue"
	"podium/internal/stage"
)

// StageSet bundles the concrete handlers the manager orchestrates.
type StageSet struct {
	Enhancer stage.Handler
	Compiler stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration
	errorRetry   time.Duration

	heartbeat *HeartbeatMonitor

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	statusOrder  []queue.Status

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
}

// NewManager constructs a workflow manager with the default stage set.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	m := newManager(cfg, store, logger)
	m.ConfigureStages(StageSet{
		Enhancer: stage.NewEnhance(cfg, logger),
		Compiler: stage.NewCompile(cfg, logger),
	})
	return m
}

// NewManagerWithStages constructs a manager around explicit handlers
// (used in tests).
func NewManagerWithStages(cfg *config.Config, store *queue.Store, logger *slog.Logger, set StageSet) *Manager {
	m := newManager(cfg, store, logger)
	m.ConfigureStages(set)
	return m
}

func newManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "workflow"))
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetry:   time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}
}

// ConfigureStages registers the pipeline stages in processing order.
func (m *Manager) ConfigureStages(set StageSet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stages = []pipelineStage{
		{
			name:             "enhance",
			handler:          set.Enhancer,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusEnhancing,
			doneStatus:       queue.StatusEnhanced,
		},
		{
			name:             "compile",
			handler:          set.Compiler,
			startStatus:      queue.StatusEnhanced,
			processingStatus: queue.StatusCompiling,
			doneStatus:       queue.StatusCompleted,
		},
	}
	m.stageByStart = make(map[queue.Status]pipelineStage, len(m.stages))
	m.statusOrder = m.statusOrder[:0]
	for _, stg := range m.stages {
		m.stageByStart[stg.startStatus] = stg
		m.statusOrder = append(m.statusOrder, stg.startStatus)
	}
}

// Health reports readiness for every registered stage.
func (m *Manager) Health(ctx context.Context) []stage.Health {
	m.mu.RLock()
	stages := make([]pipelineStage, len(m.stages))
	copy(stages, m.stages)
	m.mu.RUnlock()

	results := make([]stage.Health, 0, len(stages))
	for _, stg := range stages {
		if stg.handler == nil {
			results = append(results, stage.Unhealthy(stg.name, "handler not configured"))
			continue
		}
		results = append(results, stg.handler.HealthCheck(ctx))
	}
	return results
}

// LastError returns the most recent processing error, if any.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}
