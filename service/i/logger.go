package i

// Logger is the leveled logger every service and adapter writes to.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
}
