// File: internal/property/repository_test.go
package property

import (
	"context"
	"fmt"
	"testing"
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A uniquely named shared-cache database keeps each test isolated
	// while letting GORM's pool reuse the same in-memory instance.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Property{}, &PropertyMedia{}, &Availability{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedProperty(t *testing.T, repo Repository, landlordID uuid.UUID, title, location, roomType string, price float64) *Property {
	t.Helper()
	p := &Property{
		LandlordID: landlordID,
		Title:      title,
		Location:   location,
		RoomType:   roomType,
		Price:      price,
		Slug:       title + "-" + uuid.NewString()[:8],
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func defaultPQ() common.PaginationQuery {
	return common.PaginationQuery{Page: 1, PageSize: 20}
}

func TestSearch_FiltersAreConjunctive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	landlordID := uuid.New()

	seedProperty(t, repo, landlordID, "Central studio", "Amsterdam Centrum", RoomTypeStudio, 900)
	seedProperty(t, repo, landlordID, "Cheap room", "Amsterdam Noord", RoomTypeSingle, 450)
	seedProperty(t, repo, landlordID, "Utrecht loft", "Utrecht", RoomTypeStudio, 850)
	seedProperty(t, repo, landlordID, "Pricey studio", "Amsterdam Zuid", RoomTypeStudio, 1500)

	location := "amsterdam"
	roomType := RoomTypeStudio
	maxPrice := 1000.0

	results, total, err := repo.Search(ctx, SearchQuery{
		Location: &location,
		RoomType: &roomType,
		MaxPrice: &maxPrice,
	}, defaultPQ())
	require.NoError(t, err)

	// Only the listing matching ALL three filters survives.
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Central studio", results[0].Title)
}

func TestSearch_NoFiltersReturnsEverything(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	landlordID := uuid.New()

	seedProperty(t, repo, landlordID, "One", "A", RoomTypeSingle, 100)
	seedProperty(t, repo, landlordID, "Two", "B", RoomTypeShared, 200)

	results, total, err := repo.Search(context.Background(), SearchQuery{}, defaultPQ())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)
}

func TestSearch_PriceRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	landlordID := uuid.New()

	seedProperty(t, repo, landlordID, "Low", "X", RoomTypeSingle, 300)
	seedProperty(t, repo, landlordID, "Mid", "X", RoomTypeSingle, 600)
	seedProperty(t, repo, landlordID, "High", "X", RoomTypeSingle, 1200)

	minPrice, maxPrice := 400.0, 1000.0
	results, total, err := repo.Search(context.Background(), SearchQuery{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}, defaultPQ())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Mid", results[0].Title)
}

func TestReplaceAvailability_SwapsWholeCalendar(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	p := seedProperty(t, repo, uuid.New(), "Calendar test", "X", RoomTypeSingle, 500)

	day := func(offset int) time.Time {
		return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	require.NoError(t, repo.ReplaceAvailability(ctx, p.ID, []Availability{
		{Date: day(0), IsAvailable: true},
		{Date: day(1), IsAvailable: false},
	}))

	require.NoError(t, repo.ReplaceAvailability(ctx, p.ID, []Availability{
		{Date: day(5), IsAvailable: true},
	}))

	slots, err := repo.ListAvailability(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, day(5).Format("2006-01-02"), slots[0].Date.Format("2006-01-02"))
}

func TestReplaceAvailability_FailureLeavesOldSetIntact(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	p := seedProperty(t, repo, uuid.New(), "Atomic test", "X", RoomTypeSingle, 500)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.ReplaceAvailability(ctx, p.ID, []Availability{
		{Date: day, IsAvailable: true},
		{Date: day.AddDate(0, 0, 1), IsAvailable: true},
	}))

	// A duplicate date trips the unique index mid-transaction.
	err := repo.ReplaceAvailability(ctx, p.ID, []Availability{
		{Date: day.AddDate(0, 0, 10), IsAvailable: true},
		{Date: day.AddDate(0, 0, 10), IsAvailable: false},
	})
	require.Error(t, err)

	slots, listErr := repo.ListAvailability(ctx, p.ID)
	require.NoError(t, listErr)
	require.Len(t, slots, 2)
	assert.Equal(t, day.Format("2006-01-02"), slots[0].Date.Format("2006-01-02"))
}

func TestDelete_RemovesDependents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	p := seedProperty(t, repo, uuid.New(), "Doomed", "X", RoomTypeSingle, 500)

	require.NoError(t, repo.AddMedia(ctx, &PropertyMedia{
		PropertyID: p.ID,
		URL:        "https://cdn.example.com/img.jpg",
		MediaType:  MediaTypeImage,
	}))
	require.NoError(t, repo.ReplaceAvailability(ctx, p.ID, []Availability{
		{Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), IsAvailable: true},
	}))

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID, false)
	assert.ErrorIs(t, err, common.ErrNotFound)

	var mediaCount, slotCount int64
	db.Model(&PropertyMedia{}).Where("property_id = ?", p.ID).Count(&mediaCount)
	db.Model(&Availability{}).Where("property_id = ?", p.ID).Count(&slotCount)
	assert.Zero(t, mediaCount)
	assert.Zero(t, slotCount)
}

func TestDelete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByLandlord_OnlyOwn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	mine, other := uuid.New(), uuid.New()

	seedProperty(t, repo, mine, "Mine 1", "X", RoomTypeSingle, 100)
	seedProperty(t, repo, mine, "Mine 2", "X", RoomTypeSingle, 200)
	seedProperty(t, repo, other, "Theirs", "X", RoomTypeSingle, 300)

	results, total, err := repo.ListByLandlord(context.Background(), mine, defaultPQ())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)
}
