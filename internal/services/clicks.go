package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"

	"github.com/kipko3ch/link-seav1/internal/models"
)

// ClickEvent is what the public tracking endpoint receives about a visit.
type ClickEvent struct {
	LinkID    uint
	Referrer  string
	UserAgent string
	IPAddress string
}

type ClickEntry struct {
	ClickedAt time.Time `json:"clicked_at"`
	Referrer  string    `json:"referrer"`
}

type StatCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// LinkStats is the link record plus its click aggregates.
type LinkStats struct {
	models.Link
	TotalClicks      int64        `json:"total_clicks"`
	UniqueVisitors   int64        `json:"unique_visitors"`
	ClickHistory     []ClickEntry `json:"click_history"`
	Browsers         []StatCount  `json:"browsers"`
	OperatingSystems []StatCount  `json:"operating_systems"`
	Devices          []StatCount  `json:"devices"`
	Countries        []StatCount  `json:"countries"`
	Referrers        []StatCount  `json:"referrers"`
}

type ClickService struct {
	db        *gorm.DB
	logger    *slog.Logger
	geo       *GeoIPService
	ownerOnly bool
	now       func() time.Time
}

func NewClickService(db *gorm.DB, logger *slog.Logger, geo *GeoIPService, ownerOnly bool) *ClickService {
	return &ClickService{
		db:        db,
		logger:    logger,
		geo:       geo,
		ownerOnly: ownerOnly,
		now:       time.Now,
	}
}

// TrackClick bumps the link counter and stores the event in one transaction.
// Unknown links are ignored and reported as not recorded.
func (s *ClickService) TrackClick(ctx context.Context, ev ClickEvent) (bool, error) {
	click := models.Click{
		LinkID:    ev.LinkID,
		Referrer:  strings.TrimSpace(ev.Referrer),
		UserAgent: ev.UserAgent,
		IPAddress: ev.IPAddress,
		ClickedAt: s.now().UTC(),
	}
	s.enrich(&click)

	recorded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Link{}).
			Where("id = ?", ev.LinkID).
			UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("increment click count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(&click).Error; err != nil {
			return fmt.Errorf("record click: %w", err)
		}
		recorded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return recorded, nil
}

func (s *ClickService) enrich(click *models.Click) {
	ua := user_agent.New(click.UserAgent)
	name, version := ua.Browser()
	click.Browser = strings.TrimSpace(name + " " + version)
	click.OS = ua.OS()

	switch {
	case ua.Bot():
		click.DeviceType = "Bot"
	case ua.Mobile():
		click.DeviceType = "Mobile"
	default:
		click.DeviceType = "Desktop"
	}

	click.Country = unknownCountry
	if s.geo != nil {
		click.Country = s.geo.Country(click.IPAddress)
	}
}

// GetLinkStats aggregates the clicks of one link. With owner-only stats a
// link owned by someone else is reported as not found.
func (s *ClickService) GetLinkStats(ctx context.Context, userID, linkID uint) (LinkStats, error) {
	db := s.db.WithContext(ctx)

	var link models.Link
	q := db.Where("id = ?", linkID)
	if s.ownerOnly {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LinkStats{}, ErrLinkNotFound
		}
		return LinkStats{}, fmt.Errorf("find link: %w", err)
	}

	stats := LinkStats{Link: link, ClickHistory: []ClickEntry{}}
	clicks := func() *gorm.DB {
		return db.Model(&models.Click{}).Where("link_id = ?", link.ID)
	}

	if err := clicks().Count(&stats.TotalClicks).Error; err != nil {
		return LinkStats{}, fmt.Errorf("count clicks: %w", err)
	}
	if err := clicks().Distinct("ip_address").Count(&stats.UniqueVisitors).Error; err != nil {
		return LinkStats{}, fmt.Errorf("count visitors: %w", err)
	}
	if err := clicks().Select("clicked_at, referrer").Order("clicked_at ASC").Order("id ASC").Scan(&stats.ClickHistory).Error; err != nil {
		return LinkStats{}, fmt.Errorf("click history: %w", err)
	}

	breakdowns := []struct {
		column string
		empty  string
		out    *[]StatCount
	}{
		{"browser", unknownCountry, &stats.Browsers},
		{"os", unknownCountry, &stats.OperatingSystems},
		{"device_type", unknownCountry, &stats.Devices},
		{"country", unknownCountry, &stats.Countries},
		{"referrer", "Direct", &stats.Referrers},
	}
	for _, b := range breakdowns {
		rows, err := s.breakdown(clicks(), b.column, b.empty)
		if err != nil {
			return LinkStats{}, err
		}
		*b.out = rows
	}

	return stats, nil
}

// breakdown groups by a fixed column name, never by caller input.
func (s *ClickService) breakdown(q *gorm.DB, column, emptyLabel string) ([]StatCount, error) {
	rows := []StatCount{}
	err := q.Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("COUNT(*) DESC").Order(column + " ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%s breakdown: %w", column, err)
	}
	for i := range rows {
		if rows[i].Label == "" {
			rows[i].Label = emptyLabel
		}
	}
	return rows, nil
}
