package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeverity_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "OFF", SeverityOff.String())
	assert.Equal(t, "UNKNOWN", Severity(9).String())
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"warning", "WARNING", " Warning "} {
		s, err := ParseSeverity(name)
		require.NoError(t, err, name)
		assert.Equal(t, SeverityWarning, s)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
}

func TestConfigRule_YAML(t *testing.T) {
	t.Parallel()
	var rules map[string]ConfigRule
	src := "non-canonical:\n  severity: OFF\ntruncated-input:\n  severity: error\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &rules))
	assert.Equal(t, SeverityOff, rules["non-canonical"].Severity)
	assert.Equal(t, SeverityError, rules["truncated-input"].Severity)

	out, err := yaml.Marshal(map[string]ConfigRule{"invalid-query": {Severity: SeverityInfo}})
	require.NoError(t, err)
	assert.Equal(t, "invalid-query:\n    severity: INFO\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("x:\n  severity: loud\n"), &rules))
}

func TestIssue_JSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(Issue{Rule: "non-canonical", Severity: SeverityInfo})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Severity":"INFO"`)
}
