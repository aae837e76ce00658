package main

import "safespace_backend/internal/app"

func main() {
	app.Run()
}
