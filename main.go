package main

import (
	"github.com/hamzaalmahdi/civitai/app"
	"github.com/hamzaalmahdi/civitai/pkg/observability"
)

func main() {
	observability.StartProfiling("notification-service")
	app.Run()
}
