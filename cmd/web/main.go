package main

import "flymedia_backend/internal/app"

func main() {
	app.Run()
}
