package secondary

// Reporter is the logging port injected into every component. There is
// no ambient global logger; each component receives a reporter tagged
// with its own name at construction.
type Reporter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
