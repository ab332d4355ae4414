package vet

import "fmt"

type Greeter struct{}

func (g *Greeter) Hello(name string) string {
	return fmt.Sprintf("hello %d", name)
}

func Clean() string {
	return fmt.Sprintf("%s", "ok")
}

var banner = fmt.Sprintf("%s", 42)
