package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidInput marks every rejection caused by the caller's input
var ErrInvalidInput = errors.New("invalid input")

// RateSource provides the latest reference key rate, if one has been fetched
type RateSource interface {
	Latest() (models.KeyRate, bool)
}

// Service handles the calculators. Every calculation is a pure function of
// its input; the service only adds logging and metrics around them.
type Service struct {
	log   *logrus.Logger
	rates RateSource
}

// NewService initializes a new service
func NewService(log *logrus.Logger, rates RateSource) *Service {
	return &Service{log: log, rates: rates}
}

// printer formats amounts with thousands separators in guidance text
var printer = message.NewPrinter(language.English)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func formatMoney(v float64, places int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", places), v)
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
