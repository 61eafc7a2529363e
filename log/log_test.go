package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogNotInitialized(t *testing.T) {
	Info("Test log.Info", " value is ", 10)
	Infof("Test log.Infof %d", 10)
	Infow("Test log.Infow", "value", 10)
	Debugf("Test log.Debugf %d", 10)
	Error("Test log.Error", " value is ", 10)
	Errorf("Test log.Errorf %d", 10)
	Errorw("Test log.Errorw", "value", 10)
	Warnf("Test log.Warnf %d", 10)
	Warnw("Test log.Warnw", "value", 10)
}

func TestLog(t *testing.T) {
	cfg := Config{
		Environment: EnvironmentDevelopment,
		Level:       "debug",
		Outputs:     []string{"stderr"},
	}
	Init(cfg)

	Info("Test log.Info", " value is ", 10)
	Error("Test log.Error", errors.New("boom"))
	Errorw("Test log.Errorw", "err", errors.New("boom"))

	l := WithFields("module", "test")
	l.Infof("Test child logger %d", 1)
	require.True(t, l.IsEnabledLogLevel(zapcore.DebugLevel))
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, _, err := NewLogger(Config{Environment: EnvironmentProduction, Level: "loud"})
	require.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	sugared, lvl, err := NewLogger(Config{Environment: EnvironmentProduction, Level: "warn"})
	require.NoError(t, err)
	require.NotNil(t, lvl)
	l := &Logger{x: sugared}
	require.False(t, l.IsEnabledLogLevel(zapcore.InfoLevel))
	require.True(t, l.IsEnabledLogLevel(zapcore.ErrorLevel))
}
