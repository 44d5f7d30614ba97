// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package log provides the global and sub loggers used across the project.
//
// Two flavors are exposed: the plain zap logger via L() and S(), and the
// context-aware otelzap bridge via O() which attaches log records to the
// active trace span when tracing is enabled.
package log

import (
	stdlog "log"
	"sync"

	"github.com/pkg/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.elastic.co/ecszap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap                *zap.Config `json:"zap" yaml:"zap"`
	StderrRedirectFile *string     `json:"stderrRedirectFile" yaml:"stderrRedirectFile"`
	RedirectStdLog     bool        `json:"stdLogRedirect" yaml:"stdLogRedirect"`
	EcsIntegration     bool        `json:"ecsIntegration" yaml:"ecsIntegration"`
	OtelIntegration    bool        `json:"otelIntegration" yaml:"otelIntegration"`
}

var (
	_globalCfg        GlobalConfig
	_logMu            sync.RWMutex
	_subLoggers       map[string]*zap.Logger
	_otelLogger       *otelzap.Logger
	_globalLoggerName = "global"
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		stdlog.Println("Failed to initialize default logger!")
		return
	}
	_globalCfg.Zap = &zapCfg
	_subLoggers = make(map[string]*zap.Logger)
	_otelLogger = otelzap.New(l)
	zap.ReplaceGlobals(l)
}

// L wraps zap.L().
func L() *zap.Logger { return zap.L() }

// S wraps zap.S().
func S() *zap.SugaredLogger { return zap.S() }

// O returns the otelzap bridge around the global logger.
func O() *otelzap.Logger {
	_logMu.RLock()
	defer _logMu.RUnlock()
	return _otelLogger
}

// Logger returns the sub logger of the given name, or the global logger if no
// sub logger with that name was configured.
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	defer _logMu.RUnlock()
	logger, ok := _subLoggers[name]
	if !ok {
		return L()
	}
	return logger
}

// InitLoggers initializes the global logger and the sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig, opts ...zap.Option) error {
	if _, exists := subCfgs[_globalLoggerName]; exists {
		return errors.New("'" + _globalLoggerName + "' is a reserved name for the global logger")
	}
	subCfgs[_globalLoggerName] = globalCfg
	for name, cfg := range subCfgs {
		if _, exists := _subLoggers[name]; exists {
			return errors.Errorf("duplicate sub logger name: %s", name)
		}
		if cfg.Zap == nil {
			zapCfg := zap.NewProductionConfig()
			cfg.Zap = &zapCfg
		} else {
			cfg.Zap.EncoderConfig = zap.NewProductionEncoderConfig()
		}
		if cfg.EcsIntegration {
			cfg.Zap.EncoderConfig = ecszap.ECSCompatibleEncoderConfig(cfg.Zap.EncoderConfig)
		}
		if cfg.StderrRedirectFile != nil {
			cfg.Zap.OutputPaths = append(cfg.Zap.OutputPaths, *cfg.StderrRedirectFile)
		}
		logger, err := cfg.Zap.Build(opts...)
		if err != nil {
			return err
		}

		_logMu.Lock()
		if name == _globalLoggerName {
			_globalCfg = cfg
			if cfg.RedirectStdLog {
				zap.RedirectStdLog(logger)
			}
			otelOpts := []otelzap.Option{}
			if cfg.OtelIntegration {
				otelOpts = append(otelOpts,
					otelzap.WithMinLevel(cfg.Zap.Level.Level()),
					otelzap.WithTraceIDField(true),
				)
			}
			_otelLogger = otelzap.New(logger, otelOpts...)
			zap.ReplaceGlobals(logger)
		} else {
			_subLoggers[name] = logger
		}
		_logMu.Unlock()
	}

	return nil
}
