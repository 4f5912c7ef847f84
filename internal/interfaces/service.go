package interfaces

// Service interface defines the methods that every kind of served interface
// must be compliant with.
type Service interface {
	Start() error
	Stop()
}
