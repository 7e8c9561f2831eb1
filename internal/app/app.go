package app

import (
	"os"
	"sync"

	"github.com/egfanboy/mediapire-common/router"
)

type App struct {
	ControllerRegistry *router.ControllerRegistry
	Config             Config
}

var a *App

var o = sync.Once{}

func initApp() {
	o.Do(func() {
		if a == nil {

			cfg := parseConfig(os.Args[1:])

			a = &App{ControllerRegistry: router.NewControllerRegistry(), Config: cfg}
		}
	})
}

func GetApp() *App {
	initApp()

	return a
}

func init() {
	initApp()
}
