// Command arborscope loads an item tree from a TOML scene file and lets you
// walk its focus chain and toggle visibility and enabled state in the
// terminal. With -script it runs a JSON test script headless instead and
// reports failed checks.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phanxgames/arbor"
)

func main() {
	scenePath := flag.String("scene", "", "TOML scene file")
	configPath := flag.String("config", "", "TOML config file")
	scriptPath := flag.String("script", "", "JSON test script to run headless")
	maxFrames := flag.Int("frames", 10000, "frame limit for -script")
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: arborscope -scene file.toml [-config file.toml] [-script steps.json]")
		os.Exit(2)
	}
	w, err := load(*scenePath, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		failures, err := runScript(w, data, *maxFrames)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(arbor.Dump(w.ContentItem()))
		for _, f := range failures {
			fmt.Fprintln(os.Stderr, "FAIL:", f)
		}
		if len(failures) > 0 {
			os.Exit(1)
		}
		return
	}

	if _, err := tea.NewProgram(newModel(w), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func load(scenePath, configPath string) (*arbor.Window, error) {
	cfg := arbor.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = arbor.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	scene, err := arbor.LoadScene(scenePath)
	if err != nil {
		return nil, err
	}
	w := arbor.NewWindow(80, 24)
	w.ApplyConfig(cfg)
	scene.AttachTo(w.ContentItem())
	return w, nil
}

// runScript drives w with a test script until it finishes or maxFrames
// frames have passed.
func runScript(w *arbor.Window, script []byte, maxFrames int) ([]string, error) {
	r, err := arbor.LoadTestScript(script)
	if err != nil {
		return nil, err
	}
	w.SetActive(true)
	w.SetTestRunner(r)
	for i := 0; i < maxFrames && !r.Done(); i++ {
		w.Update()
		w.Sync()
	}
	if !r.Done() {
		return r.Failures(), fmt.Errorf("script did not finish within %d frames", maxFrames)
	}
	return r.Failures(), nil
}
