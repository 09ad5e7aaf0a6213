package testdb

import (
	"os"
	"testing"

	"github.com/phrazzld/flashquest/internal/redact"
)

// URLEnvVars lists the variables checked for a test database URL, in order.
var URLEnvVars = []string{"FLASHQUEST_TEST_DB_URL", "DATABASE_URL"}

// ciEnvVars are set by the common CI providers.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// URL returns the first configured test database URL, or "".
func URL() string {
	for _, name := range URLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsCI reports whether the tests run under a CI provider.
func IsCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// RequireURL returns the test database URL. Without one the test is skipped
// locally and failed on CI.
func RequireURL(t testing.TB) string {
	t.Helper()
	url := URL()
	if url != "" {
		t.Logf("using test database %s", redact.String(url))
		return url
	}
	if IsCI() {
		t.Fatalf("no test database configured on CI, set one of %v", URLEnvVars)
	}
	t.Skipf("no test database configured, set one of %v", URLEnvVars)
	return ""
}
