package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/inquiry/domain"
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
		log:      p.Log.Named("inquiry.service"),
		repo:     p.Repo,
		genID:    p.GenID,
		email:    p.Email,
		notifyTo: p.Cfg.Email.NotifyTo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Inquiry, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, domain.ErrInvalidName
	}
	if !strings.Contains(req.Email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrInvalidMessage
	}

	item := &domain.Inquiry{
		ID:        s.genID.Generate().Int64(),
		VehicleID: req.VehicleID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     normalizePhone(req.Phone),
		Message:   strings.TrimSpace(req.Message),
		Status:    domain.InquiryPending,
	}

	if err := s.repo.Create(ctx, s.db, item); err != nil {
		s.log.Error("create inquiry", zap.Error(err))
		return nil, err
	}

	s.notify(ctx, item)
	return item, nil
}

// notify is best effort. A submission never fails because mail did.
func (s *Service) notify(ctx context.Context, item *domain.Inquiry) {
	if s.notifyTo == "" {
		return
	}
	data := map[string]interface{}{
		"name":    item.FirstName + " " + item.LastName,
		"email":   item.Email,
		"message": item.Message,
	}
	if item.Phone != nil {
		data["phone"] = *item.Phone
	}
	if err := s.email.SendTemplate(ctx, []string{s.notifyTo}, "inquiry_received", data); err != nil {
		s.log.Warn("inquiry notification failed", zap.Error(err))
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Inquiry, error) {
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

func (s *Service) List(ctx context.Context) ([]domain.Inquiry, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Inquiry, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		switch *req.Status {
		case domain.InquiryPending, domain.InquiryReviewed, domain.InquiryClosed:
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

// normalizePhone maps blank submissions to NULL instead of empty string.
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
