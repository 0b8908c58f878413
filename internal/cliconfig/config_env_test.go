package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"PADSHIP_ADDR":                  "deck.local",
				"PADSHIP_SAMPLE_INTERVAL":       "2ms",
				"PADSHIP_QUEUE_CAPACITY":        "32",
				"PADSHIP_RETRY_INTERVAL":        "500ms",
				"PADSHIP_DIAL_TIMEOUT":          "1s",
				"PADSHIP_HEARTBEAT_INTERVAL":    "2s",
				"PADSHIP_SLOW_REPLAY_THRESHOLD": "15ms",
				"PADSHIP_STATE_DIR":             "/state",
				"PADSHIP_METRICS_ADDR":          ":9102",
				"PADSHIP_INPUT":                 "/dev/stdin",
				"PADSHIP_OUTPUT":                "/dev/null",
				"PADSHIP_LOG_LEVEL":             "warn",
			},
			changed: map[string]bool{},
			expected: Config{
				Addr:                "deck.local",
				SampleInterval:      2 * time.Millisecond,
				QueueCapacity:       32,
				RetryInterval:       500 * time.Millisecond,
				DialTimeout:         time.Second,
				HeartbeatInterval:   2 * time.Second,
				SlowReplayThreshold: 15 * time.Millisecond,
				StateDir:            "/state",
				MetricsAddr:         ":9102",
				Input:               "/dev/stdin",
				Output:              "/dev/null",
				LogLevel:            "warn",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"PADSHIP_ADDR":            "env-host",
				"PADSHIP_SAMPLE_INTERVAL": "7ms",
			},
			changed:  map[string]bool{"addr": true},
			initial:  Config{Addr: "flag-host"},
			expected: Config{Addr: "flag-host", SampleInterval: 7 * time.Millisecond},
		},
		{
			name:     "ignores non-positive capacity",
			envVars:  map[string]string{"PADSHIP_QUEUE_CAPACITY": "0"},
			changed:  map[string]bool{},
			initial:  Config{QueueCapacity: 8},
			expected: Config{QueueCapacity: 8},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"PADSHIP_SAMPLE_INTERVAL": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"PADSHIP_QUEUE_CAPACITY": "eight"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}
