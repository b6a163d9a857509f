// Package logger builds slog loggers and provides attribute helpers with
// consistent keys for request logging.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("ssrkit"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("server listening",
//		logger.Component("server"),
//		logger.URL("http://localhost:8080"),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("ssrkit"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("ssrkit"))
//
//	// Custom configuration
//	customLogger := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "api")),
//		logger.WithOutput(os.Stderr),
//	)
//
// Levels can come from configuration with ParseLevel.
//
// # Context-Aware Logging
//
// Extractors add attributes from the context passed to the *Context logging
// methods:
//
//	log := logger.New(
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := ctx.Value(requestIDKey{}).(string)
//			return logger.RequestID(id), ok
//		}),
//	)
//	log.InfoContext(r.Context(), "page rendered")
//
// # Attribute Helpers
//
// Helpers return an empty attribute for zero values, which slog drops:
//
//	log.Error("request failed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(500),
//		logger.Error(err),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("Test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
