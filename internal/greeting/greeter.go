package greeting

// Greeting is the fixed body served by the test service.
const Greeting = "Hello World!"

type Greeter interface {
	Greet() string
}

type greeter struct{}

func NewGreeter() Greeter {
	return greeter{}
}

func (greeter) Greet() string {
	return Greeting
}
