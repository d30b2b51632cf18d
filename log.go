package gringotts

import (
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

var defaultLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// DefaultLogger returns the logger given to new contexts
func DefaultLogger() *logrus.Logger {
	return defaultLogger
}

func sizeField(n int) string {
	return humanize.IBytes(uint64(n))
}

func (c *Context) log() *logrus.Entry {
	return c.logger.WithFields(logrus.Fields{
		"cipher": c.cipher.String(),
		"hash":   c.hash.String(),
		"comp":   c.comp.String(),
		"level":  c.level.String(),
	})
}

func frameFields(a Algorithms, plain, frame int) logrus.Fields {
	return logrus.Fields{
		"algorithms": a.String(),
		"plaintext":  sizeField(plain),
		"frame":      sizeField(frame),
	}
}

// errorKind names the category of err for log output
func errorKind(err error) string {
	switch {
	case IsValidationError(err):
		return "validation"
	case IsIOError(err):
		return "io"
	case IsFormatError(err):
		return "format"
	case IsIntegrityError(err):
		return "integrity"
	case IsCryptoError(err):
		return "crypto"
	case IsResourceError(err):
		return "resource"
	}
	return "unknown"
}
