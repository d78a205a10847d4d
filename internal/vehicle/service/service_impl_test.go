package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lotkeeper/lotkeeper/internal/clock"
	"github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
	"github.com/lotkeeper/lotkeeper/internal/vehicle/repository"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Vehicle{}))
	return db
}

func newTestService(t *testing.T, fake *clock.FakeClock) (domain.Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: mustNode(t),
		Repo:  repository.Provide(),
		Clock: fake,
	})
	return svc, db
}

func testRecord(vin string) domain.UpsertRecord {
	return domain.UpsertRecord{
		VIN:           vin,
		StockNumber:   "A100",
		Year:          2020,
		Make:          "Honda",
		Model:         "Civic",
		Mileage:       42000,
		Price:         18500,
		ExteriorColor: "Blue",
		Status:        domain.StatusForSale,
		Images:        []string{"https://cdn.example.com/1.jpg"},
	}
}

func TestUpsertIdempotentByVIN(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, fake)
	ctx := context.Background()

	first, created, err := svc.Upsert(ctx, testRecord("1HGBH41JXMN109186"))
	require.NoError(t, err)
	assert.True(t, created)

	fake.Advance(24 * time.Hour)
	rec := testRecord("1hgbh41jxmn109186")
	rec.Price = 17900
	second, created, err := svc.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Slug, second.Slug)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.Equal(t, int64(17900), second.Price)

	var count int64
	require.NoError(t, db.Model(&domain.Vehicle{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertPreservesBannersAndHistory(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	v, _, err := svc.Upsert(ctx, testRecord("1HGBH41JXMN109186"))
	require.NoError(t, err)

	_, err = svc.ApplyHistory(ctx, fmt.Sprintf("%d", v.ID), domain.HistorySummary{
		Provider:    "carfax",
		Score:       88,
		OwnerCount:  2,
		TitleStatus: domain.TitleClean,
	})
	require.NoError(t, err)

	updated, created, err := svc.Upsert(ctx, testRecord("1HGBH41JXMN109186"))
	require.NoError(t, err)
	assert.False(t, created)

	require.NotNil(t, updated.HistoryScore)
	assert.Equal(t, 88, *updated.HistoryScore)
	assert.Equal(t, domain.TitleClean, updated.TitleStatus)
	assert.Equal(t, "carfax", updated.HistoryProvider)
	assert.True(t, updated.BannerNew)
}

func TestSearchYearTokens(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	for _, year := range []int{2014, 2016, 2021} {
		rec := testRecord(fmt.Sprintf("VIN%d0000000000", year))
		rec.Year = year
		_, _, err := svc.Upsert(ctx, rec)
		require.NoError(t, err)
	}

	results, err := svc.Search(ctx, domain.SearchRequest{Year: "2020+"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2021, results[0].Year)

	results, err = svc.Search(ctx, domain.SearchRequest{Year: "2015-2019"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2016, results[0].Year)

	results, err = svc.Search(ctx, domain.SearchRequest{Year: "2014"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2014, results[0].Year)

	results, err = svc.Search(ctx, domain.SearchRequest{Year: "not-a-year"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestExpireNewBanners(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	old, _, err := svc.Upsert(ctx, testRecord("VINOLD0000000001"))
	require.NoError(t, err)

	fake.Advance(4 * 24 * time.Hour)
	recent, _, err := svc.Upsert(ctx, testRecord("VINNEW0000000002"))
	require.NoError(t, err)

	fake.Advance(2 * 24 * time.Hour)
	cutoff := fake.Now().AddDate(0, 0, -5)
	expired, err := svc.ExpireNewBanners(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	oldStored, err := svc.GetBySlug(ctx, old.Slug)
	require.NoError(t, err)
	assert.False(t, oldStored.BannerNew)

	recentStored, err := svc.GetBySlug(ctx, recent.Slug)
	require.NoError(t, err)
	assert.True(t, recentStored.BannerNew)

	// The expiry sweep stamps updated_at from the same clock as every other
	// mutation.
	assert.WithinDuration(t, fake.Now(), oldStored.UpdatedAt, time.Second)
}

func TestReplaceAllTruncatesAndInserts(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, fake)
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, testRecord("VINGONE000000001"))
	require.NoError(t, err)

	recs := []domain.UpsertRecord{testRecord("VINKEEP000000002"), testRecord("VINKEEP000000003")}
	recs[1].Model = "Accord"
	inserted, err := svc.ReplaceAll(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	var count int64
	require.NoError(t, db.Model(&domain.Vehicle{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	gone, err := svc.List(ctx)
	require.NoError(t, err)
	for _, v := range gone {
		assert.NotEqual(t, "VINGONE000000001", v.VIN)
	}
}

func TestReplaceAllDedupesByVIN(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, fake)
	ctx := context.Background()

	first := testRecord("1HGBH41JXMN109186")
	second := testRecord("1hgbh41jxmn109186")
	second.Price = 17250

	inserted, err := svc.ReplaceAll(ctx, []domain.UpsertRecord{first, second})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	var count int64
	require.NoError(t, db.Model(&domain.Vehicle{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := svc.GetBySlug(ctx, "2020-honda-civic-109186")
	require.NoError(t, err)
	assert.Equal(t, "1HGBH41JXMN109186", stored.VIN)
	assert.Equal(t, int64(17250), stored.Price)
}

func TestReplaceAllResolvesSlugCollision(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	// Distinct VINs with the same trailing six characters produce the same
	// base slug.
	recs := []domain.UpsertRecord{
		testRecord("1HGBH41JXMN109186"),
		testRecord("5YJSA1E26MF109186"),
	}
	inserted, err := svc.ReplaceAll(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotEqual(t, all[0].Slug, all[1].Slug)
}

func TestMetaDescriptionKeepsRuneBoundary(t *testing.T) {
	v := &domain.Vehicle{
		Year:        2020,
		Make:        "Honda",
		Model:       "Civic",
		Description: strings.Repeat("é", 200),
	}

	desc := buildMetaDescription(v)
	assert.True(t, utf8.ValidString(desc))
	assert.True(t, strings.HasSuffix(desc, "..."))
	assert.Equal(t, 155, utf8.RuneCountInString(desc))
}

func TestSetImagesRejectsUnknown(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	rec := testRecord("VINIMG0000000001")
	rec.Images = []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	v, _, err := svc.Upsert(ctx, rec)
	require.NoError(t, err)
	id := fmt.Sprintf("%d", v.ID)

	reordered, err := svc.SetImages(ctx, id, []string{"https://cdn.example.com/b.jpg", "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/b.jpg", reordered.Images[0])

	_, err = svc.SetImages(ctx, id, []string{"https://cdn.example.com/other.jpg"})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestSlugCollisionGetsSuffix(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	// Same trailing six VIN characters force the same base slug.
	first, _, err := svc.Upsert(ctx, testRecord("1HGBH41JXMN109186"))
	require.NoError(t, err)
	second, _, err := svc.Upsert(ctx, testRecord("5YJSA1E26MF109186"))
	require.NoError(t, err)

	assert.Equal(t, "2020-honda-civic-109186", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "2020-honda-civic-109186-")
}
