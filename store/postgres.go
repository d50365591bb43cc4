package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
)

const housesTable = "houses"

// houseColumns 是快照读取的列，顺序与 houses 表一致
var houseColumns = []string{
	"id", "index", "title", "price", "location",
	"room_count", "bathroom_count", "parking_count",
	"land_area", "building_area", "image_url", "is_sold",
}

// HouseTable 是 houses 表的行映射。可空列用指针承接，NULL 在转换时取零值。
type HouseTable struct {
	ID            int64    `gorm:"column:id;primaryKey"`
	Index         int64    `gorm:"column:index"`
	Title         *string  `gorm:"column:title"`
	Price         *float64 `gorm:"column:price"`
	Location      *string  `gorm:"column:location"`
	RoomCount     *float64 `gorm:"column:room_count"`
	BathroomCount *float64 `gorm:"column:bathroom_count"`
	ParkingCount  *float64 `gorm:"column:parking_count"`
	LandArea      *float64 `gorm:"column:land_area"`
	BuildingArea  *float64 `gorm:"column:building_area"`
	ImageURL      *string  `gorm:"column:image_url"`
	IsSold        bool     `gorm:"column:is_sold"`
}

func (HouseTable) TableName() string {
	return housesTable
}

// ToListing 转换为领域模型
func (t *HouseTable) ToListing() core.Listing {
	return core.Listing{
		ID:            t.ID,
		Index:         t.Index,
		Title:         deref(t.Title),
		Price:         deref(t.Price),
		Location:      deref(t.Location),
		RoomCount:     deref(t.RoomCount),
		BathroomCount: deref(t.BathroomCount),
		ParkingCount:  deref(t.ParkingCount),
		LandArea:      deref(t.LandArea),
		BuildingArea:  deref(t.BuildingArea),
		ImageURL:      deref(t.ImageURL),
		IsSold:        t.IsSold,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// PostgresListingStore 从 Postgres 的 houses 表读取房源快照。
type PostgresListingStore struct {
	db *gorm.DB
}

// OpenPostgres 按 DSN 创建连接池，不在启动时 ping：数据库暂时不可达时由每次查询自行失败降级。
// gorm 默认 logger 关闭，查询日志由调用方负责。
func OpenPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("database url is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func NewPostgresListingStore(db *gorm.DB) *PostgresListingStore {
	return &PostgresListingStore{db: db}
}

func (s *PostgresListingStore) Name() string { return "postgres" }

func (s *PostgresListingStore) unsoldQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&HouseTable{}).
		Select(houseColumns).
		Where("is_sold = ?", false).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "index"}})
}

// LoadUnsoldListings 读取全部未售房源，按 index 升序。
func (s *PostgresListingStore) LoadUnsoldListings(ctx context.Context) ([]core.Listing, error) {
	if s.db == nil {
		return nil, core.ErrStoreUnavailable
	}
	var rows []HouseTable
	if err := s.unsoldQuery(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", housesTable, err)
	}
	out := make([]core.Listing, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToListing())
	}
	return out, nil
}

// Close 关闭底层连接池
func (s *PostgresListingStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ core.ListingStore = (*PostgresListingStore)(nil)
