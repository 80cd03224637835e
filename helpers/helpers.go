package helpers

import (
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"strings"

	"github.com/drivenas/nasd/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SanitizeURL checks if the parameter "access_token" is in the request
// and overwrites it with "REDACTED" to avoid leaks in the logs.
func SanitizeURL(uri *url.URL) string {
	if uri == nil {
		return ""
	}
	copy := *uri
	params := copy.Query()
	if len(params.Get("access_token")) > 0 {
		params.Set("access_token", "REDACTED")
		copy.RawQuery = params.Encode()
	}
	return copy.String()
}

// GetAppLogger returns an already configured log for logging application events.
func GetAppLogger(conf *config.Config) *logrus.Entry {
	dirs := conf.GetDirectives()
	return NewLogger(dirs.Server.AppLogLevel, dirs.Server.AppLog,
		dirs.Server.AppLogMaxSize, dirs.Server.AppLogMaxAge, dirs.Server.AppLogMaxBackups)
}

// GetHTTPAccessLogWriter returns the writer the HTTP access log goes to.
func GetHTTPAccessLogWriter(conf *config.Config) io.Writer {
	dirs := conf.GetDirectives()
	switch dirs.Server.HTTPAccessLog {
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	case "":
		return io.Discard
	default:
		return &lumberjack.Logger{
			Filename:   dirs.Server.HTTPAccessLog,
			MaxSize:    dirs.Server.HTTPAccessLogMaxSize,
			MaxAge:     dirs.Server.HTTPAccessLogMaxAge,
			MaxBackups: dirs.Server.HTTPAccessLogMaxBackups,
		}
	}
}

// NewLogger returns a log configured with the input parameters.
func NewLogger(level, writer string, maxSize, maxAge, maxBackups int) *logrus.Entry {
	base := logrus.New()

	switch writer {
	case "stdout":
		base.Out = os.Stdout
	case "stderr":
		base.Out = os.Stderr
	case "":
		base.Out = io.Discard
	default:
		base.Out = &lumberjack.Logger{
			Filename:   writer,
			MaxSize:    maxSize,
			MaxAge:     maxAge,
			MaxBackups: maxBackups,
		}
	}

	logrusLevel, err := logrus.ParseLevel(level)
	// if provided level is not supported, default to Info level
	if err != nil {
		base.Error(err)
		logrusLevel = logrus.InfoLevel
	}
	base.Level = logrusLevel

	log := logrus.NewEntry(base)
	return log
}

// ConvertBytes converts a byte count to a human-readable form,
// like "1.00 KB" or "2.35 GB".
func ConvertBytes(numBytes int64) string {
	value := float64(numBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if math.Abs(value) < 1024.0 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", value)
}

// EncodePath percent-encodes every segment of a slash-separated relative
// path, keeping the separators, so it is safe to embed in URLs.
func EncodePath(relPath string) string {
	if relPath == "" {
		return ""
	}
	segments := strings.Split(relPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// DecodePath reverses EncodePath.
func DecodePath(encodedPath string) (string, error) {
	return url.PathUnescape(encodedPath)
}
