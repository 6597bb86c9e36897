package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit_Level(t *testing.T) {
	log := Init("DEBUG", "text")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestInit_BadLevelFallsBackToInfo(t *testing.T) {
	log := Init("loud", "text")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestInit_JSONFormat(t *testing.T) {
	log := Init("warn", "json")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}
