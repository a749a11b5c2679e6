package wizard

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eduforge-api/internal/application/navigation"
	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	apperrors "eduforge-api/pkg/errors"
	"eduforge-api/pkg/logger"
	"eduforge-api/pkg/metrics"
	"eduforge-api/pkg/tracer"
)

// StartInput 开启向导会话参数
type StartInput struct {
	TenantID string
	UserID   string
	// ProjectID 非空时进入编辑模式
	ProjectID string
	// ResumeStep 编辑模式下恢复到的步骤，未知步骤从第一步开始
	ResumeStep entity.StepID
}

// Result 单次导航的结果
type Result struct {
	Session    *entity.WizardSession
	Transition Transition
}

// CompleteResult 向导完成结果
type CompleteResult struct {
	Session *entity.WizardSession
	Project *entity.Project
	Created bool
	// Route 完成后继续工作的路由
	Route string
}

// Service 向导会话服务
// 同一会话的写操作在事务内通过行锁串行化
type Service struct {
	txMgr     repository.Transactor
	sessions  repository.WizardSessionRepository
	projects  repository.ProjectRepository
	publisher repository.EventPublisher
	nav       *Navigator
}

// NewService 创建向导会话服务，publisher 可为 nil
func NewService(
	txMgr repository.Transactor,
	sessions repository.WizardSessionRepository,
	projects repository.ProjectRepository,
	publisher repository.EventPublisher,
	nav *Navigator,
) *Service {
	return &Service{
		txMgr:     txMgr,
		sessions:  sessions,
		projects:  projects,
		publisher: publisher,
		nav:       nav,
	}
}

// Navigator 返回使用的步骤状态机
func (s *Service) Navigator() *Navigator {
	return s.nav
}

// Start 开启向导会话
func (s *Service) Start(ctx context.Context, in StartInput) (*entity.WizardSession, error) {
	ctx, span := tracer.Start(ctx, "wizard.Service.Start")
	defer span.End()

	session := entity.NewWizardSession(in.TenantID, in.UserID)
	if in.ProjectID != "" {
		project, err := s.projects.GetByID(ctx, in.ProjectID)
		if err != nil {
			span.RecordError(err)
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load project")
		}
		if project == nil || project.TenantID != in.TenantID {
			return nil, apperrors.ErrProjectNotFound
		}
		session = entity.NewEditWizardSession(in.TenantID, in.UserID, project, s.nav.ResumeIndex(in.ResumeStep), s.nav.TotalSteps())
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create wizard session")
	}

	metrics.WizardActiveSessions.Inc()
	span.SetAttributes(attribute.String("wizard.session_id", session.ID), attribute.Bool("wizard.editing", session.IsEditing))
	logger.Info(logger.WithContext(ctx, logger.SessionIDKey, session.ID), "wizard session started",
		"editing", session.IsEditing,
		"step_index", session.CurrentStepIndex,
	)
	return session, nil
}

// Get 获取会话
func (s *Service) Get(ctx context.Context, tenantID, id string) (*entity.WizardSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load wizard session")
	}
	if session == nil || session.TenantID != tenantID {
		return nil, apperrors.ErrWizardSessionNotFound
	}
	return session, nil
}

// Advance 合并当前步骤数据并前进一步
func (s *Service) Advance(ctx context.Context, tenantID, id string, partial entity.WizardFormData) (*Result, error) {
	ctx, span := tracer.Start(ctx, "wizard.Service.Advance", attributeSession(id))
	defer span.End()

	var t Transition
	session, err := s.mutate(ctx, tenantID, id, func(_ context.Context, cur *entity.WizardSession) error {
		t = s.nav.Advance(cur, partial)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.WizardTransitionsTotal.WithLabelValues("advance", string(t.Outcome)).Inc()
	return &Result{Session: session, Transition: t}, nil
}

// Retreat 后退一步；projectID 为空时使用会话正在编辑的项目
func (s *Service) Retreat(ctx context.Context, tenantID, id, projectID string, sink navigation.Sink) (*Result, error) {
	ctx, span := tracer.Start(ctx, "wizard.Service.Retreat", attributeSession(id))
	defer span.End()

	var t Transition
	session, err := s.mutate(ctx, tenantID, id, func(_ context.Context, cur *entity.WizardSession) error {
		pid := projectID
		if pid == "" {
			pid = cur.EditProjectID()
		}
		t = s.nav.Retreat(cur, pid, sink)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.WizardTransitionsTotal.WithLabelValues("retreat", string(t.Outcome)).Inc()
	if t.Exited() {
		logger.Info(logger.WithContext(ctx, logger.SessionIDKey, id), "wizard exited to project", "route", t.Route)
	}
	return &Result{Session: session, Transition: t}, nil
}

// Complete 在最后一步提交向导：新建或更新项目并关闭会话
func (s *Service) Complete(ctx context.Context, tenantID, id string, partial entity.WizardFormData) (*CompleteResult, error) {
	ctx, span := tracer.Start(ctx, "wizard.Service.Complete", attributeSession(id))
	defer span.End()

	res := &CompleteResult{}
	session, err := s.mutate(ctx, tenantID, id, func(txCtx context.Context, cur *entity.WizardSession) error {
		if !s.nav.IsLastStep(cur) {
			return apperrors.ErrWizardIncomplete
		}
		cur.FormData = cur.FormData.Merge(partial)
		if stepID, ok := s.nav.CurrentStepID(cur); ok {
			cur.MarkVisited(stepID)
		}

		if pid := cur.EditProjectID(); pid != "" {
			project, err := s.projects.GetByID(txCtx, pid)
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load project")
			}
			if project == nil || project.TenantID != tenantID {
				return apperrors.ErrProjectNotFound
			}
			project.ApplyConfiguration(cur.FormData)
			if err := s.projects.Update(txCtx, project); err != nil {
				return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update project")
			}
			res.Project = project
		} else {
			project := entity.NewProjectFromWizard(cur.TenantID, cur.UserID, cur.FormData)
			if err := s.projects.Create(txCtx, project); err != nil {
				return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create project")
			}
			res.Project = project
			res.Created = true
		}

		cur.Complete(res.Project.ID)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res.Session = session
	res.Route = navigation.ProjectStage(res.Project.ID, string(res.Project.PipelineStatus))

	mode := "edit"
	if res.Created {
		mode = "create"
	}
	metrics.WizardCompletedTotal.WithLabelValues(mode).Inc()
	metrics.WizardActiveSessions.Dec()

	ctx = logger.WithContext(ctx, logger.ProjectIDKey, res.Project.ID)
	s.publish(ctx, entity.NewPipelineEvent(entity.EventProjectConfigured, tenantID, session.UserID, res.Project.ID, res.Project.PipelineStatus))
	logger.Info(ctx, "wizard completed", "mode", mode, "wizard_session", id)
	return res, nil
}

// Cancel 取消会话
func (s *Service) Cancel(ctx context.Context, tenantID, id string) (*entity.WizardSession, error) {
	ctx, span := tracer.Start(ctx, "wizard.Service.Cancel", attributeSession(id))
	defer span.End()

	session, err := s.mutate(ctx, tenantID, id, func(_ context.Context, cur *entity.WizardSession) error {
		cur.Cancel()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.WizardActiveSessions.Dec()
	return session, nil
}

// mutate 在事务内锁定活跃会话，执行 fn 后保存
func (s *Service) mutate(ctx context.Context, tenantID, id string, fn func(ctx context.Context, cur *entity.WizardSession) error) (*entity.WizardSession, error) {
	var session *entity.WizardSession
	err := s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		cur, err := s.sessions.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load wizard session")
		}
		if cur == nil || cur.TenantID != tenantID {
			return apperrors.ErrWizardSessionNotFound
		}
		if !cur.IsActive() {
			return apperrors.ErrWizardSessionClosed
		}

		if err := fn(txCtx, cur); err != nil {
			return err
		}
		if err := s.sessions.Update(txCtx, cur); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save wizard session")
		}
		session = cur
		return nil
	})
	return session, err
}

func (s *Service) publish(ctx context.Context, event *entity.PipelineEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.PublishPipelineEvent(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish pipeline event", "type", string(event.Type), "error", err.Error())
	}
}

func attributeSession(id string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("wizard.session_id", id))
}
