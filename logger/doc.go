// Package logger provides structured logging for seqkit tools using zerolog.
//
// Log lines go to stderr by default so that command output on stdout stays
// machine readable. Loggers are scoped by component and can pick up the run
// and trace identifiers carried by a context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("plan")
//	log.Info("plan finished", logger.Fields("terminal", "count", "result", 42))
package logger
