package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/planview/config"
	"github.com/milk9111/planview/scene"
)

func main() {
	sceneName := flag.String("scene", scene.DefaultSample, "scene file, or the name of a bundled sample")
	configPath := flag.String("config", "", "YAML settings file (PLANVIEW_* env vars override it)")
	watch := flag.Bool("watch", false, "reload the scene file when it changes on disk")
	debug := flag.Bool("debug", false, "show frame and redraw counters")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " - " + filepath.Base(*sceneName))

	viewer, err := NewViewer(cfg, *debug)
	if err != nil {
		log.Fatal(err)
	}

	entities, err := scene.Load(*sceneName)
	if err != nil {
		log.Fatal(err)
	}
	viewer.Load(entities)

	if *watch {
		if err := viewer.Watch(*sceneName); err != nil {
			log.Printf("planview: watch %s: %v", *sceneName, err)
		}
	}

	err = ebiten.RunGame(viewer)
	if cerr := viewer.Close(); cerr != nil {
		log.Printf("planview: close watcher: %v", cerr)
	}
	if err != nil {
		log.Fatal(err)
	}
}
