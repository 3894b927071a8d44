package main

import (
	"subtitle-workers/src/application"
)

func main() {
	app := application.NewApp()
	app.Start()
	waitForever()
}

func waitForever() {
	<-make(chan bool)
}
