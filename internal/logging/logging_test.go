package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetMCPLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	cases := []struct {
		mcp  string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"notice", logrus.InfoLevel},
		{"WARNING", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"emergency", logrus.FatalLevel},
		{"made-up", logrus.InfoLevel},
	}
	for _, tc := range cases {
		SetMCPLevel(tc.mcp)
		assert.Equal(t, tc.want, logrus.GetLevel(), "level=%q", tc.mcp)
	}
}

func TestComponent_TagsEntries(t *testing.T) {
	entry := Component("gemini")
	assert.Equal(t, "gemini", entry.Data["component"])
}
