package service

import (
	"errors"

	"github.com/Dan9191/fincalc/internal/models"
)

// ErrKeyRateUnavailable is returned when the feed is disabled or nothing has been fetched yet
var ErrKeyRateUnavailable = errors.New("key rate unavailable")

// KeyRate returns the latest reference key rate
func (s *Service) KeyRate() (models.KeyRate, error) {
	if s.rates == nil {
		return models.KeyRate{}, ErrKeyRateUnavailable
	}
	kr, ok := s.rates.Latest()
	if !ok {
		return models.KeyRate{}, ErrKeyRateUnavailable
	}
	return kr, nil
}
