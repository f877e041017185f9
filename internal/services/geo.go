package services

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"

	"github.com/kipko3ch/link-seav1/internal/config"
)

const unknownCountry = "Unknown"

type countryReader interface {
	Country(ip net.IP) (*geoip2.Country, error)
	Metadata() maxminddb.Metadata
	Close() error
}

// GeoIPService resolves click countries from an optional MaxMind database.
// Without a database every lookup returns "Unknown".
type GeoIPService struct {
	path     string
	interval time.Duration
	logger   *slog.Logger
	open     func(path string) (countryReader, error)

	mu     sync.RWMutex
	reader countryReader
}

func NewGeoIPService(cfg config.Config, logger *slog.Logger) *GeoIPService {
	return &GeoIPService{
		path:     cfg.GeoIPDBPath,
		interval: cfg.GeoIPReload,
		logger:   logger,
		open: func(path string) (countryReader, error) {
			return geoip2.Open(path)
		},
	}
}

func (s *GeoIPService) Init() {
	if s.path == "" {
		s.logger.Info("GeoIP: no database configured, country lookups disabled")
		return
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("GeoIP: database file not found, country lookups disabled", "path", s.path)
		return
	}
	s.reload()
}

// StartReloader re-opens the database file on every tick so an updated
// file is picked up without a restart.
func (s *GeoIPService) StartReloader(ctx context.Context) {
	if s.path == "" || s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reload()
		case <-ctx.Done():
			s.logger.Info("GeoIP: reloader stopping")
			return
		}
	}
}

func (s *GeoIPService) reload() {
	reader, err := s.open(s.path)
	if err != nil {
		s.logger.Error("GeoIP: failed to open database", "path", s.path, "error", err)
		return
	}

	s.mu.Lock()
	old := s.reader
	s.reader = reader
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	s.logger.Info("GeoIP: loaded database", "epoch", reader.Metadata().BuildEpoch)
}

func (s *GeoIPService) Country(ipStr string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.reader == nil {
		return unknownCountry
	}

	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() {
		return unknownCountry
	}

	record, err := s.reader.Country(ip)
	if err != nil {
		s.logger.Debug("GeoIP: lookup error", "ip", ipStr, "error", err)
		return unknownCountry
	}
	if name, ok := record.Country.Names["en"]; ok && name != "" {
		return name
	}
	if record.Country.IsoCode != "" {
		return record.Country.IsoCode
	}
	return unknownCountry
}

func (s *GeoIPService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		s.reader.Close()
		s.reader = nil
	}
}
