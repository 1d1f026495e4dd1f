// File: internal/services/user_services/types.go
package user_services

// Logger matches the service-level structured logger so this package
// does not import the services package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
