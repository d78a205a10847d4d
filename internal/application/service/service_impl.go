package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lotkeeper/lotkeeper/internal/application/domain"
	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/providers/email"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Email email.Provider
	Cfg   config.Config
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	genID    *snowflake.Node
	email    email.Provider
	notifyTo string
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("application.service"),
		repo:     p.Repo,
		genID:    p.GenID,
		email:    p.Email,
		notifyTo: p.Cfg.Email.NotifyTo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Application, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, domain.ErrInvalidName
	}
	if !strings.Contains(req.Email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	item := &domain.Application{
		ID:               s.genID.Generate().Int64(),
		VehicleID:        req.VehicleID,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.TrimSpace(req.Email),
		Phone:            normalizePhone(req.Phone),
		EmploymentStatus: strings.TrimSpace(req.EmploymentStatus),
		MonthlyIncome:    req.MonthlyIncome,
		DownPayment:      req.DownPayment,
		Status:           domain.ApplicationPending,
	}

	if err := s.repo.Create(ctx, s.db, item); err != nil {
		s.log.Error("create application", zap.Error(err))
		return nil, err
	}

	s.notify(ctx, item)
	return item, nil
}

func (s *Service) notify(ctx context.Context, item *domain.Application) {
	if s.notifyTo == "" {
		return
	}
	data := map[string]interface{}{
		"first_name":        item.FirstName,
		"last_name":         item.LastName,
		"email":             item.Email,
		"employment_status": item.EmploymentStatus,
	}
	if item.Phone != nil {
		data["phone"] = *item.Phone
	}
	if item.MonthlyIncome > 0 {
		data["monthly_income"] = strconv.FormatInt(item.MonthlyIncome, 10)
	}
	if err := s.email.SendTemplate(ctx, []string{s.notifyTo}, "application_received", data); err != nil {
		s.log.Warn("application notification failed", zap.Error(err))
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Application, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Application, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Application, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		switch *req.Status {
		case domain.ApplicationPending, domain.ApplicationReviewed,
			domain.ApplicationApproved, domain.ApplicationDeclined:
			item.Status = *req.Status
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	if req.Notes != nil {
		item.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
