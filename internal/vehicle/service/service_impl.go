package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/lotkeeper/lotkeeper/internal/clock"
	"github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
	"github.com/lotkeeper/lotkeeper/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("vehicle.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Vehicle, error) {
	if err := validateRequired(req.Year, req.Make, req.Model); err != nil {
		return nil, err
	}

	vin := strings.ToUpper(strings.TrimSpace(req.VIN))
	slugValue := strings.TrimSpace(req.Slug)
	if slugValue == "" {
		slugValue = GenerateSlug(req.Year, req.Make, req.Model, vin)
	}

	now := s.clock.Now()
	bannerNew := true
	if req.BannerNew != nil {
		bannerNew = *req.BannerNew
	}

	v := &domain.Vehicle{
		ID:            s.genID.Generate().Int64(),
		VIN:           vin,
		StockNumber:   strings.TrimSpace(req.StockNumber),
		Slug:          slugValue,
		Year:          req.Year,
		Make:          strings.TrimSpace(req.Make),
		Model:         strings.TrimSpace(req.Model),
		Mileage:       req.Mileage,
		Price:         req.Price,
		ExteriorColor: strings.TrimSpace(req.ExteriorColor),
		InteriorColor: strings.TrimSpace(req.InteriorColor),
		Description:   strings.TrimSpace(req.Description),
		Notes:         strings.TrimSpace(req.Notes),
		Status:        domain.NormalizeStatus(req.Status),
		Images:        dedupeImages(req.Images),
		TitleStatus:   domain.TitleUnknown,
		BannerNew:     bannerNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyDerivedFields(v)

	if err := s.insertWithSlugRetry(ctx, s.db, v); err != nil {
		return nil, err
	}

	s.log.Info("vehicle created",
		zap.String("slug", v.Slug),
		zap.String("vin", v.VIN),
	)
	return v, nil
}

// insertWithSlugRetry resolves a slug collision once with a short random
// suffix before giving up with a conflict.
func (s *Service) insertWithSlugRetry(ctx context.Context, tx *gorm.DB, v *domain.Vehicle) error {
	taken, err := s.repo.SlugExists(ctx, tx, v.Slug)
	if err != nil {
		return err
	}
	if taken {
		v.Slug = v.Slug + "-" + shortRandomSuffix()
	}

	if err := s.repo.Create(ctx, tx, v); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrSlugConflict
		}
		return err
	}
	return nil
}

func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*domain.Vehicle, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, domain.ErrInvalidID
	}
	v, err := s.repo.FindBySlug(ctx, s.db, slugValue)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	vehicleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Vehicle, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Vehicle, error) {
	yearMin, yearMax := resolveYearToken(req.Year)
	return s.repo.Search(ctx, s.db, domain.SearchFilter{
		Make:     strings.TrimSpace(req.Make),
		Model:    strings.TrimSpace(req.Model),
		YearMin:  yearMin,
		YearMax:  yearMax,
		MaxPrice: req.MaxPrice,
		Status:   strings.TrimSpace(req.Status),
	})
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Vehicle, error) {
	vehicleID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}

	if req.StockNumber != nil {
		v.StockNumber = strings.TrimSpace(*req.StockNumber)
	}
	if req.Year != nil {
		if *req.Year <= 0 {
			return nil, domain.ErrInvalidYear
		}
		v.Year = *req.Year
	}
	if req.Make != nil {
		if strings.TrimSpace(*req.Make) == "" {
			return nil, domain.ErrInvalidMake
		}
		v.Make = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		if strings.TrimSpace(*req.Model) == "" {
			return nil, domain.ErrInvalidModel
		}
		v.Model = strings.TrimSpace(*req.Model)
	}
	if req.Mileage != nil {
		v.Mileage = *req.Mileage
	}
	if req.Price != nil {
		v.Price = *req.Price
	}
	if req.ExteriorColor != nil {
		v.ExteriorColor = strings.TrimSpace(*req.ExteriorColor)
	}
	if req.InteriorColor != nil {
		v.InteriorColor = strings.TrimSpace(*req.InteriorColor)
	}
	if req.Description != nil {
		v.Description = strings.TrimSpace(*req.Description)
	}
	if req.Notes != nil {
		v.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		v.Status = domain.NormalizeStatus(*req.Status)
	}
	if req.BannerNew != nil {
		v.BannerNew = *req.BannerNew
	}
	if req.BannerReduced != nil {
		v.BannerReduced = *req.BannerReduced
	}
	if req.BannerGreatDeal != nil {
		v.BannerGreatDeal = *req.BannerGreatDeal
	}
	if req.BannerSold != nil {
		v.BannerSold = *req.BannerSold
	}

	v.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	vehicleID, err := parseID(id)
	if err != nil {
		return err
	}
	v, err := s.repo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, vehicleID)
}

func (s *Service) SetImages(ctx context.Context, id string, images []string) (*domain.Vehicle, error) {
	vehicleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}

	// Reordering must never introduce duplicates or entries the vehicle does
	// not already own.
	known := make(map[string]bool, len(v.Images))
	for _, img := range v.Images {
		known[img] = true
	}
	cleaned := make([]string, 0, len(images))
	seen := make(map[string]bool, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" || seen[img] {
			continue
		}
		if !known[img] {
			return nil, domain.ErrInvalidImage
		}
		seen[img] = true
		cleaned = append(cleaned, img)
	}

	v.Images = cleaned
	v.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) AddImage(ctx context.Context, id string, url string) (*domain.Vehicle, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, domain.ErrInvalidImage
	}

	vehicleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}

	for _, img := range v.Images {
		if img == url {
			return v, nil
		}
	}

	v.Images = append(v.Images, url)
	v.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Upsert(ctx context.Context, rec domain.UpsertRecord) (*domain.Vehicle, bool, error) {
	if err := validateRequired(rec.Year, rec.Make, rec.Model); err != nil {
		return nil, false, err
	}

	vin := strings.ToUpper(strings.TrimSpace(rec.VIN))
	if vin != "" {
		existing, err := s.repo.FindByVIN(ctx, s.db, vin)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			applyRecord(existing, rec)
			existing.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, s.db, existing); err != nil {
				if db.IsDuplicateKeyErr(err) {
					return nil, false, domain.ErrVINConflict
				}
				return nil, false, err
			}
			s.log.Info("vehicle updated",
				zap.String("slug", existing.Slug),
				zap.String("vin", vin),
			)
			return existing, false, nil
		}
	}

	now := s.clock.Now()
	v := &domain.Vehicle{
		ID:          s.genID.Generate().Int64(),
		VIN:         vin,
		Slug:        GenerateSlug(rec.Year, rec.Make, rec.Model, vin),
		TitleStatus: domain.TitleUnknown,
		BannerNew:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyRecord(v, rec)
	applyDerivedFields(v)

	if err := s.insertWithSlugRetry(ctx, s.db, v); err != nil {
		return nil, false, err
	}
	s.log.Info("vehicle created",
		zap.String("slug", v.Slug),
		zap.String("vin", vin),
	)
	return v, true, nil
}

func (s *Service) ReplaceAll(ctx context.Context, recs []domain.UpsertRecord) (int, error) {
	recs = dedupeByVIN(recs)
	inserted := 0
	now := s.clock.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		for _, rec := range recs {
			if err := validateRequired(rec.Year, rec.Make, rec.Model); err != nil {
				return err
			}
			vin := strings.ToUpper(strings.TrimSpace(rec.VIN))
			v := &domain.Vehicle{
				ID:          s.genID.Generate().Int64(),
				VIN:         vin,
				Slug:        GenerateSlug(rec.Year, rec.Make, rec.Model, vin),
				TitleStatus: domain.TitleUnknown,
				BannerNew:   true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			applyRecord(v, rec)
			applyDerivedFields(v)
			if err := s.insertWithSlugRetry(ctx, tx, v); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("inventory replaced", zap.Int("inserted", inserted))
	return inserted, nil
}

// dedupeByVIN collapses rows sharing a VIN so a repeated source row maps to
// one stored vehicle. The last occurrence wins; rows without a VIN pass
// through untouched.
func dedupeByVIN(recs []domain.UpsertRecord) []domain.UpsertRecord {
	idx := make(map[string]int, len(recs))
	out := make([]domain.UpsertRecord, 0, len(recs))
	for _, rec := range recs {
		vin := strings.ToUpper(strings.TrimSpace(rec.VIN))
		if vin == "" {
			out = append(out, rec)
			continue
		}
		if i, ok := idx[vin]; ok {
			out[i] = rec
			continue
		}
		idx[vin] = len(out)
		out = append(out, rec)
	}
	return out
}

func (s *Service) ApplyHistory(ctx context.Context, id string, summary domain.HistorySummary) (*domain.Vehicle, error) {
	vehicleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}

	score := summary.Score
	accidents := summary.AccidentCount
	owners := summary.OwnerCount
	services := summary.ServiceRecords

	v.HistoryScore = &score
	v.AccidentCount = &accidents
	v.OwnerCount = &owners
	v.ServiceRecords = &services
	v.TitleStatus = summary.TitleStatus
	v.HistoryProvider = summary.Provider
	v.HistoryReportURL = summary.ReportURL
	checkedAt := summary.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = s.clock.Now()
	}
	v.HistoryCheckedAt = &checkedAt

	v.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) ExpireNewBanners(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.ExpireNewBanners(ctx, s.db, cutoff, s.clock.Now())
}

// applyRecord overwrites every field the sync pipeline maps. Slug, creation
// time, banners and history fields are deliberately left alone.
func applyRecord(v *domain.Vehicle, rec domain.UpsertRecord) {
	v.StockNumber = strings.TrimSpace(rec.StockNumber)
	v.Year = rec.Year
	v.Make = strings.TrimSpace(rec.Make)
	v.Model = strings.TrimSpace(rec.Model)
	v.Mileage = rec.Mileage
	v.Price = rec.Price
	v.ExteriorColor = strings.TrimSpace(rec.ExteriorColor)
	v.InteriorColor = strings.TrimSpace(rec.InteriorColor)
	v.Description = strings.TrimSpace(rec.Description)
	v.Notes = strings.TrimSpace(rec.Notes)
	if rec.Status != "" {
		v.Status = rec.Status
	} else if v.Status == "" {
		v.Status = domain.StatusForSale
	}
	if rec.Images != nil {
		v.Images = dedupeImages(rec.Images)
	}
}

func applyDerivedFields(v *domain.Vehicle) {
	v.MetaTitle = fmt.Sprintf("%d %s %s for Sale", v.Year, v.Make, v.Model)
	v.MetaDescription = buildMetaDescription(v)
	v.KeyFeatures = ExtractKeyFeatures(v.Description + " " + v.Notes)
}

func buildMetaDescription(v *domain.Vehicle) string {
	desc := strings.TrimSpace(v.Description)
	if desc == "" {
		desc = fmt.Sprintf("Used %d %s %s with %d miles.", v.Year, v.Make, v.Model, v.Mileage)
	}
	const maxLen = 155
	if runes := []rune(desc); len(runes) > maxLen {
		desc = string(runes[:maxLen-3]) + "..."
	}
	return desc
}

func validateRequired(year int, make, model string) error {
	if year <= 0 {
		return domain.ErrInvalidYear
	}
	if strings.TrimSpace(make) == "" {
		return domain.ErrInvalidMake
	}
	if strings.TrimSpace(model) == "" {
		return domain.ErrInvalidModel
	}
	return nil
}

// resolveYearToken maps the storefront's sentinel range tokens to inclusive
// bounds. A plain year matches exactly; anything unparseable means no filter.
func resolveYearToken(token string) (int, int) {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return 0, 0
	case strings.HasSuffix(token, "+"):
		min, err := strconv.Atoi(strings.TrimSuffix(token, "+"))
		if err != nil {
			return 0, 0
		}
		return min, 0
	case strings.Contains(token, "-"):
		parts := strings.SplitN(token, "-", 2)
		min, errMin := strconv.Atoi(strings.TrimSpace(parts[0]))
		max, errMax := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errMin != nil || errMax != nil {
			return 0, 0
		}
		return min, max
	default:
		year, err := strconv.Atoi(token)
		if err != nil {
			return 0, 0
		}
		return year, year
	}
}

func dedupeImages(images []string) []string {
	seen := make(map[string]bool, len(images))
	out := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true
		out = append(out, img)
	}
	return out
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func shortRandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
