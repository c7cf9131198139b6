package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/courierops/parceltrack/internal/core"
)

// PrimaryElectServiceOptions groups dependencies for PrimaryElectService.
type PrimaryElectServiceOptions struct {
	Items       core.JobItemRepository // Required: local job/item store
	ServiceCode string                 // Required: the primary-elect service code
	Logger      *slog.Logger           // Optional: structured logger
}

// PrimaryElectService identifies which job items for a connote are eligible
// for comms at all: items on a primary-elect job with at least one usable
// contact channel. A connote with nothing to notify is an expected quiet
// case, logged and returned empty, never an error.
type PrimaryElectService struct {
	items       core.JobItemRepository
	serviceCode string
	logger      *slog.Logger
}

// NewPrimaryElectService constructs a new PrimaryElectService.
func NewPrimaryElectService(opts PrimaryElectServiceOptions) (*PrimaryElectService, error) {
	if opts.Items == nil {
		return nil, errors.New("JobItemRepository is required")
	}
	serviceCode := strings.TrimSpace(opts.ServiceCode)
	if serviceCode == "" {
		return nil, errors.New("primary-elect service code is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PrimaryElectService{
		items:       opts.Items,
		serviceCode: serviceCode,
		logger:      logger.With("component", "primary_elect_service"),
	}, nil
}

// EligibleJobItems returns the ascending ids of the connote's job items that
// belong to a primary-elect job and have usable contact data.
func (s *PrimaryElectService) EligibleJobItems(ctx context.Context, connote string) ([]int64, error) {
	connote = strings.TrimSpace(connote)
	if connote == "" {
		return nil, errors.New("connote is required")
	}

	items, err := s.items.FindByConnote(ctx, connote)
	if err != nil {
		return nil, fmt.Errorf("find job items for connote %s: %w", connote, err)
	}

	primaryElect := false
	ids := make([]int64, 0, len(items))
	for i := range items {
		if !strings.EqualFold(items[i].ServiceCode, s.serviceCode) {
			continue
		}
		primaryElect = true
		if items[i].HasUsableContact() {
			ids = append(ids, items[i].ID)
		}
	}

	if !primaryElect {
		return nil, nil
	}
	if len(ids) == 0 {
		s.logger.InfoContext(ctx, "primary-elect connote has no usable contact data",
			"connote_nbr", connote)
		return nil, nil
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
