package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommsFlagName(t *testing.T) {
	t.Run("success marker", func(t *testing.T) {
		f := CommsFlag{Action: ActionEmail, JobItemID: 3, Service: "pe", Outcome: OutcomePending}
		assert.Equal(t, "email.3.pe", f.Name())
	})

	t.Run("error marker carries err suffix", func(t *testing.T) {
		f := CommsFlag{Action: ActionEmail, JobItemID: 10, Service: "pe", Outcome: OutcomeError}
		assert.Equal(t, "email.10.pe.err", f.Name())
	})

	t.Run("sms marker", func(t *testing.T) {
		f := CommsFlag{Action: ActionSMS, JobItemID: 42, Service: "pe", Outcome: OutcomePending}
		assert.Equal(t, "sms.42.pe", f.Name())
	})
}

func TestCommsFlagValidate(t *testing.T) {
	valid := CommsFlag{Action: ActionSMS, JobItemID: 7, Service: "pe", Outcome: OutcomePending}

	t.Run("valid flag", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("unknown action", func(t *testing.T) {
		f := valid
		f.Action = "fax"
		assert.Error(t, f.Validate())
	})

	t.Run("zero job item id", func(t *testing.T) {
		f := valid
		f.JobItemID = 0
		assert.Error(t, f.Validate())
	})

	t.Run("blank service", func(t *testing.T) {
		f := valid
		f.Service = "  "
		assert.Error(t, f.Validate())
	})

	t.Run("unknown outcome", func(t *testing.T) {
		f := valid
		f.Outcome = "maybe"
		assert.Error(t, f.Validate())
	})
}

func TestParseFlagName(t *testing.T) {
	t.Run("round trips success marker", func(t *testing.T) {
		f, err := ParseFlagName("email.3.pe")
		require.NoError(t, err)
		assert.Equal(t, ActionEmail, f.Action)
		assert.Equal(t, int64(3), f.JobItemID)
		assert.Equal(t, "pe", f.Service)
		assert.Equal(t, OutcomePending, f.Outcome)
		assert.Equal(t, "email.3.pe", f.Name())
	})

	t.Run("round trips error marker", func(t *testing.T) {
		f, err := ParseFlagName("sms.10.pe.err")
		require.NoError(t, err)
		assert.Equal(t, ActionSMS, f.Action)
		assert.Equal(t, OutcomeError, f.Outcome)
		assert.Equal(t, "sms.10.pe.err", f.Name())
	})

	t.Run("rejects malformed names", func(t *testing.T) {
		for _, name := range []string{
			"",
			"email",
			"email.3",
			"email.3.pe.sent",
			"email.notanumber.pe",
			"fax.3.pe",
			"email.3.pe.err.extra",
		} {
			_, err := ParseFlagName(name)
			assert.ErrorIs(t, err, ErrMalformedFlagName, "name %q", name)
		}
	})
}
