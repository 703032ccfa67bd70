package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-a", ":5000", "-d", "postgres://x"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", ":5000"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=alt.json", "-a", ":5000"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag at end without value",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next flag is not consumed as value",
			args:         []string{"-guest", "-a", ":6000"},
			allowedFlags: []string{"-guest", "-a"},
			want:         []string{"-guest", "-a", ":6000"},
		},
		{
			name:         "repeated flag keeps order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/etc/chat.json", ConfigFileFlag([]string{"-c", "/etc/chat.json"}))
	assert.Equal(t, "/etc/chat.json", ConfigFileFlag([]string{"-a", ":1", "-config", "/etc/chat.json"}))
	assert.Equal(t, "2.json", ConfigFileFlag([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
}
