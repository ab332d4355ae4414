package app

import "fmt"

type Logger struct{}

func (l *Logger) Logf(name string) string {
	return fmt.Sprintf("log %d", name)
}

type Greeter struct{}

//ignorefile:ignore printf
func (g *Greeter) Hello(name string) string {
	return fmt.Sprintf("hello %d", name)
}

func Report(n int) string {
	return fmt.Sprintf("report %s", n)
}

func Quiet() {} //ignorefile:ignore printf
