package redact_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/flashquest/internal/redact"
)

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no sensitive data",
			input:    "pet dog is not alive",
			expected: "pet dog is not alive",
		},
		{
			name:     "prose with sql words",
			input:    "failed to update set name",
			expected: "failed to update set name",
		},
		{
			name:     "inline card image",
			input:    "card image data:image/png;base64,iVBORw0KGgoAAAANSUhEUg== exceeds size limit",
			expected: "card image [REDACTED_IMAGE] exceeds size limit",
		},
		{
			name:     "database connection string",
			input:    "connect postgres://quest:pw@localhost:5432/flashquest failed",
			expected: "connect [REDACTED_CREDENTIAL][REDACTED_HOST]/flashquest failed",
		},
		{
			name:     "password parameter",
			input:    "rejected password=hunter22 in dsn",
			expected: "rejected [REDACTED_CREDENTIAL] in dsn",
		},
		{
			name:     "secret",
			input:    "using secret=abcdef1234567890 for signing",
			expected: "using [REDACTED_KEY] for signing",
		},
		{
			name:     "file path",
			input:    "open /var/lib/flashquest/flashquest.db: permission denied",
			expected: "open [REDACTED_PATH]: permission denied",
		},
		{
			name:     "windows path",
			input:    "cannot read C:\\Users\\me\\decks\\spanish.xlsx",
			expected: "cannot read [REDACTED_PATH]",
		},
		{
			name:     "email address",
			input:    "owner admin@example.com",
			expected: "owner [REDACTED_EMAIL]",
		},
		{
			name:     "stack trace",
			input:    "panic: runtime error\ngoroutine 1 [running]:\nmain.main()\n\t/app/main.go:42",
			expected: "[STACK_TRACE_REDACTED]",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, redact.String(tc.input))
		})
	}
}

func TestRedactString_SQL(t *testing.T) {
	redacted := redact.String("exec failed: UPDATE kv_entries SET value = $1, version = version + 1 WHERE name = $2")

	assert.Contains(t, redacted, redact.RedactedSQLPlaceholder)
	assert.NotContains(t, redacted, "kv_entries")
	assert.True(t, strings.HasPrefix(redacted, "exec failed: "))
}

func TestRedactError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "", redact.Error(nil))
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("open /home/quest/.local/flashquest.db: no such file")
		wrapped := fmt.Errorf("storage: %w", inner)
		assert.Equal(t, "storage: open [REDACTED_PATH]: no such file", redact.Error(wrapped))
	})
}
