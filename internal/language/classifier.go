// Package language maps a query to one of the supported response languages.
package language

import (
	"slices"
	"strings"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"
)

// Detector returns the ISO 639-1 code of text's language, or false when the
// text is too short or ambiguous to call.
type Detector interface {
	Detect(text string) (string, bool)
}

// Classifier resolves a query to a supported language code, falling back
// when detection fails or the detected language is not supported.
type Classifier struct {
	detector  Detector
	supported []string
	fallback  string
	logger    *zap.Logger
}

// NewClassifier creates a classifier. fallback must be one of supported.
func NewClassifier(detector Detector, supported []string, fallback string, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		detector:  detector,
		supported: supported,
		fallback:  fallback,
		logger:    logger,
	}
}

// Classify never fails: the result is always a supported code.
func (c *Classifier) Classify(query string) string {
	code, ok := c.detector.Detect(query)
	if !ok {
		c.logger.Warn("Language detection failed, using fallback",
			zap.String("fallback", c.fallback),
		)
		return c.fallback
	}
	if !slices.Contains(c.supported, code) {
		c.logger.Warn("Detected language is not supported, using fallback",
			zap.String("detected", code),
			zap.String("fallback", c.fallback),
		)
		return c.fallback
	}
	c.logger.Debug("Language detected", zap.String("lang", code))
	return code
}

// LinguaDetector detects languages with lingua's statistical models.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// LinguaOptions tunes the lingua detector.
type LinguaOptions struct {
	LowAccuracy bool
	// Preload loads every model in Build instead of on first use.
	Preload bool
}

// lingua's Serbian model is Cyrillic only, so Latin-script Serbian is
// detected as one of its Latin-script neighbours.
var aliases = map[lingua.Language]string{
	lingua.Bosnian:  "sr",
	lingua.Croatian: "sr",
}

// NewLinguaDetector builds a detector over every language lingua knows;
// unsupported languages are reported as detected and left to the Classifier.
func NewLinguaDetector(opts LinguaOptions) *LinguaDetector {
	builder := lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	if opts.LowAccuracy {
		builder = builder.WithLowAccuracyMode()
	}
	if opts.Preload {
		builder = builder.WithPreloadedLanguageModels()
	}
	return &LinguaDetector{detector: builder.Build()}
}

// Detect implements Detector.
func (d *LinguaDetector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return codeFor(lang), true
}

func codeFor(lang lingua.Language) string {
	if code, ok := aliases[lang]; ok {
		return code
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
