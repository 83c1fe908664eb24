package main

import "github.com/grupomivyca/mivyca-backend/cmd"

func main() {
	cmd.Execute()
}
