package actions

import (
	"fmt"
	"strings"

	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// ConfigListAction prints every configuration key with its effective value
func ConfigListAction(ctx *runtime.Context) error {
	var lines []string
	for _, key := range config.Keys() {
		value, err := ctx.Config.Get(key)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s: %s", tui.ColorCyan(key), value))
	}
	ctx.Splog.Page(strings.Join(lines, "\n") + "\n")
	return nil
}

// ConfigSetAction sets one key and saves the configuration.
func ConfigSetAction(ctx *runtime.Context, key, value string) error {
	if err := ctx.Config.Set(key, value); err != nil {
		return err
	}
	if err := ctx.Config.Save(); err != nil {
		return err
	}
	ctx.Splog.Info("Set %s to %s.", key, value)
	return nil
}
