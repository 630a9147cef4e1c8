package ports

// Diagnostics is a leveled sink for narration from the computation path.
// Arguments follow the key/value convention of log/slog, so *slog.Logger satisfies it.
type Diagnostics interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}
