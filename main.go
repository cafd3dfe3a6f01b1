package main

import "github.com/giovaniif/e-commerce/catalog/cmd/api"

func main() {
	api.StartServer()
}
