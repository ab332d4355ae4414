package main

import "fmt"

type Server struct{}

func (s *Server) Start(port string) {
	fmt.Printf("listening on %d\n", port)
}

func main() {
	s := &Server{}
	s.Start("8080")
	fmt.Printf("done %s\n", 1)
}
