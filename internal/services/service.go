package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"binduty-service/internal/auth"
	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/notification"
	"binduty-service/internal/repo"
	"binduty-service/internal/store"
)

// Deps are the collaborators a Service is built from.
type Deps struct {
	Store      store.Store
	Dispatcher *notification.Dispatcher
	Tokens     *auth.TokenManager
	Logger     *logging.Logger
	Config     config.Config
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service implements the reminder workflow and the admin operations around it.
type Service struct {
	residents  *repo.Residents
	settings   *repo.Settings
	audit      *repo.AuditLog
	history    *repo.History
	issues     *repo.Issues
	admins     *repo.Admins
	dispatcher *notification.Dispatcher
	tokens     *auth.TokenManager
	logger     *logging.Logger
	config     config.Config
	now        func() time.Time

	reminderMu sync.Mutex

	tasks     chan models.Task
	ctx       context.Context
	cancel    context.CancelFunc
	wg        *sync.WaitGroup
	wsManager *WebSocketManager
}

// New constructs a Service.
func New(d Deps) *Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	queueSize := d.Config.Notification.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		residents:  repo.NewResidents(d.Store),
		settings:   repo.NewSettings(d.Store),
		audit:      repo.NewAuditLog(d.Store, now),
		history:    repo.NewHistory(d.Store, now),
		issues:     repo.NewIssues(d.Store, now),
		admins:     repo.NewAdmins(d.Store),
		dispatcher: d.Dispatcher,
		tokens:     d.Tokens,
		logger:     d.Logger,
		config:     d.Config,
		now:        now,
		tasks:      make(chan models.Task, queueSize),
		ctx:        ctx,
		cancel:     cancel,
		wsManager:  NewWebSocketManager(d.Logger),
	}
}

// Logger exposes the Service's logger
func (s *Service) Logger() *logging.Logger {
	return s.logger
}

// WebSockets returns the live admin feed.
func (s *Service) WebSockets() *WebSocketManager {
	return s.wsManager
}

// Start launches the worker pool
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.config.Notification.MaxWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop signals workers to exit once their current task is done.
func (s *Service) Stop() {
	s.cancel()
	s.wsManager.CloseAll()
}

// QueueTask enqueues a Task for processing
func (s *Service) QueueTask(task models.Task) {
	select {
	case s.tasks <- task:
		s.logger.Infof("Queued task: request_id=%s kind=%s", task.RequestID, task.Kind)
	default:
		s.logger.Errorf("Queue full, dropping task: request_id=%s", task.RequestID)
	}
}

// worker processes Tasks until context is cancelled
func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Worker %d stopped", id)
			return
		case task := <-s.tasks:
			if err := s.handleTask(s.ctx, task); err != nil {
				s.logger.WithField("request_id", task.RequestID).Errorf("Task %s failed: %v", task.Kind, err)
			}
		}
	}
}

// handleTask runs one queued trigger.
func (s *Service) handleTask(ctx context.Context, task models.Task) error {
	switch task.Kind {
	case models.TaskReminder:
		res, err := s.TriggerReminder(ctx, models.Trigger{Origin: models.OriginAutomatic, Template: task.Message})
		if err != nil {
			return err
		}
		s.logger.WithField("request_id", task.RequestID).Infof("Reminder task finished: %s", res.Message)
		return nil
	case models.TaskAnnouncement:
		res, err := s.SendAnnouncement(ctx, models.ActorQueue, task.Subject, task.Message, task.ResidentIDs)
		if err != nil {
			return err
		}
		s.logger.WithField("request_id", task.RequestID).Infof("Announcement task finished: %s", res.Message)
		return nil
	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}

// log appends an audit entry. A failure to audit never fails the operation.
func (s *Service) log(ctx context.Context, actor, description string) {
	if _, err := s.audit.Append(ctx, actor, description); err != nil {
		s.logger.Errorf("Audit append failed (%s: %s): %v", actor, description, err)
	}
}

func (s *Service) today() string {
	return s.now().UTC().Format(repo.DateLayout)
}
