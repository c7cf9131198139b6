// Package mocks provides mock implementations for testing the parcel
// lifecycle services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository and transport interfaces in internal/core. The mocks are
// generated using go:generate directives and provide a fluent API for setting
// up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	items := mocks.NewMockJobItemRepository(ctrl)
//	items.EXPECT().GetByID(gomock.Any(), int64(3)).Return(item, nil)
package mocks

// Generate mock for JobItemRepository interface from internal/core package.
// This creates MockJobItemRepository with methods for all JobItemRepository interface methods:
// FindCandidates, FindByConnote, GetByID, FindAgedPickups, MarkPickedUp, MarkNotified
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_item_repository_mock.go github.com/courierops/parceltrack/internal/core JobItemRepository

// Generate mock for ScanSource interface from internal/core package.
// This creates MockScanSource with methods for all ScanSource interface methods:
// Resolve
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=scan_source_mock.go github.com/courierops/parceltrack/internal/core ScanSource

// Generate mock for CommsLedger interface from internal/core package.
// This creates MockCommsLedger with methods for all CommsLedger interface methods:
// CreateIfAbsent, Exists, Remove, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=comms_ledger_mock.go github.com/courierops/parceltrack/internal/core CommsLedger

// Generate mock for Messenger interface from internal/core package.
// This creates MockMessenger with methods for all Messenger interface methods:
// Send
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=messenger_mock.go github.com/courierops/parceltrack/internal/core Messenger
