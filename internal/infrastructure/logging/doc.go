// Package logging provides structured logging for Domovoice.
//
// It wraps the standard library log/slog with configuration-driven
// level filtering, output format selection, and default service fields.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("directive handled", "namespace", ns, "name", name)
//
// A Default() logger is available for early startup before the
// configuration file has been loaded.
package logging
