package main

import "browserflow/internal/bootstrap"

func main() {
	bootstrap.NewApp().Run()
}
