// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package genericconf

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	flag "github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileLoggingConfig struct {
	Enable     bool   `koanf:"enable"`
	File       string `koanf:"file"`
	MaxSize    int    `koanf:"max-size"`
	MaxBackups int    `koanf:"max-backups"`
	MaxAge     int    `koanf:"max-age"`
	Compress   bool   `koanf:"compress"`
}

var DefaultFileLoggingConfig = FileLoggingConfig{
	Enable:     false,
	File:       "rollup-bridge.log",
	MaxSize:    20, // megabytes
	MaxBackups: 20,
	MaxAge:     0,
	Compress:   true,
}

func FileLoggingConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.Bool(prefix+".enable", DefaultFileLoggingConfig.Enable, "enable logging to file")
	f.String(prefix+".file", DefaultFileLoggingConfig.File, "path to log file")
	f.Int(prefix+".max-size", DefaultFileLoggingConfig.MaxSize, "log file size in MB that triggers rotation")
	f.Int(prefix+".max-backups", DefaultFileLoggingConfig.MaxBackups, "maximum number of old log files to retain")
	f.Int(prefix+".max-age", DefaultFileLoggingConfig.MaxAge, "maximum number of days to retain old log files")
	f.Bool(prefix+".compress", DefaultFileLoggingConfig.Compress, "enable compression of old log files")
}

// InitLog installs the root log handler. logType is "plaintext" or "json";
// file logging, when enabled, replaces stderr output with a rotating file.
func InitLog(logType string, logLevel string, fileConfig *FileLoggingConfig) error {
	level, err := log.LvlFromString(logLevel)
	if err != nil {
		return fmt.Errorf("unknown log level %q: %w", logLevel, err)
	}
	var format log.Format
	switch logType {
	case "plaintext":
		format = log.TerminalFormat(false)
	case "json":
		format = log.JSONFormat()
	default:
		return fmt.Errorf("unknown log type %q", logType)
	}
	var output io.Writer = os.Stderr
	if fileConfig != nil && fileConfig.Enable {
		// lumberjack locks on Write, safe without a sync wrapper
		output = &lumberjack.Logger{
			Filename:   fileConfig.File,
			MaxSize:    fileConfig.MaxSize,
			MaxBackups: fileConfig.MaxBackups,
			MaxAge:     fileConfig.MaxAge,
			Compress:   fileConfig.Compress,
		}
	}
	glogger := log.NewGlogHandler(log.StreamHandler(output, format))
	glogger.Verbosity(level)
	log.Root().SetHandler(glogger)
	return nil
}
