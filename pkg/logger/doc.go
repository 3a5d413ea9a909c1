/*
Package logger wraps uber-go/zap behind a small interface used by the worker
pool, the copier and the CLI.

	log := logger.NewLogger(logger.Config{Verbosity: 1})

	log.Named("copier").WithFields(logger.Fields{
	    "source": "/data/in",
	    "files":  42,
	}).Info("Copy completed")

Verbosity levels:

	0: Info, Warn, Error (default)
	1: Debug + Level 0
	2: Trace + Level 1

Entries go to stderr unless Config.Output says otherwise, so per-file error
reports never mix with the summary printed on stdout. The underlying writer is
wrapped with zapcore.Lock and is safe for concurrent use by many workers.
*/
package logger
