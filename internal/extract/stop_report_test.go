package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stopReportSample = `
CN100 2026-08-01 IT1 2026-08-03
CN100 2026-08-01 IT2
CN200 2026-08-02 IT1
`

func TestStopReportParse(t *testing.T) {
	report := NewStopReport(nil)
	require.NoError(t, report.Parse(strings.NewReader(stopReportSample)))
	assert.Equal(t, 2, report.Len())

	t.Run("delivered row", func(t *testing.T) {
		recs := report.Lookup("CN100")
		require.Len(t, recs, 2)
		assert.Equal(t, "DELIVERED", recs[0].ScanAction)
		assert.Equal(t, "IT1", recs[0].ItemNbr)
		assert.Equal(t, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), recs[0].ScanTS)
	})

	t.Run("despatch-only row", func(t *testing.T) {
		recs := report.Lookup("CN100")
		require.Len(t, recs, 2)
		assert.Equal(t, "DESPATCHED", recs[1].ScanAction)
		assert.Equal(t, "IT2", recs[1].ItemNbr)
	})

	t.Run("delivered is item-scoped", func(t *testing.T) {
		assert.True(t, report.Delivered("CN100", "IT1"))
		assert.False(t, report.Delivered("CN100", "IT2"))
		assert.True(t, report.Delivered("CN100", ""))
		assert.False(t, report.Delivered("CN200", ""))
	})

	t.Run("unknown reference", func(t *testing.T) {
		assert.Empty(t, report.Lookup("CN999"))
		assert.False(t, report.Delivered("CN999", ""))
	})
}

func TestStopReportParseSkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"CN1 2026-08-01 IT1 2026-08-02",
		"garbage",
		"too many fields on this line entirely",
		"CN2 2026-08-01 IT1",
	}, "\n")

	report := NewStopReport(nil)
	require.NoError(t, report.Parse(strings.NewReader(input)))
	assert.Equal(t, 2, report.Len())
}

func TestStopReportReingestIsIdempotent(t *testing.T) {
	report := NewStopReport(nil)
	require.NoError(t, report.Parse(strings.NewReader(stopReportSample)))
	require.NoError(t, report.Parse(strings.NewReader(stopReportSample)))

	assert.Equal(t, 2, report.Len())
	assert.Len(t, report.Lookup("CN100"), 2)
	assert.Len(t, report.Lookup("CN200"), 1)
}

func TestStopReportDeliveredNeverDemoted(t *testing.T) {
	report := NewStopReport(nil)
	require.NoError(t, report.Parse(strings.NewReader("CN1 2026-08-01 IT1 2026-08-02\n")))
	require.True(t, report.Delivered("CN1", "IT1"))

	// A later despatch-only row for the same key must not undo the delivery.
	require.NoError(t, report.Parse(strings.NewReader("CN1 2026-08-01 IT1\n")))
	assert.True(t, report.Delivered("CN1", "IT1"))
}

func TestParseReportDateLayouts(t *testing.T) {
	want := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, parseReportDate("2026-08-03"))
	assert.Equal(t, want, parseReportDate("03/08/2026"))
	assert.Equal(t, want, parseReportDate("20260803"))
	assert.True(t, parseReportDate("not a date").IsZero())
}
