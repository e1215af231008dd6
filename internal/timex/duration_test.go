package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"30m"`), &d))
	assert.Equal(t, 30*time.Minute, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration)

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var out struct {
		TTL   Duration `yaml:"ttl"`
		Nanos Duration `yaml:"nanos"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("ttl: 1h\nnanos: 5\n"), &out))
	assert.Equal(t, time.Hour, out.TTL.Duration)
	assert.Equal(t, 5*time.Nanosecond, out.Nanos.Duration)

	assert.Error(t, yaml.Unmarshal([]byte("ttl: later\n"), &out))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
