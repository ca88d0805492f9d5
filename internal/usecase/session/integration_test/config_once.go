package integrationtest

import (
	"sync"

	"github.com/humanbelnik/kinoswap/duo/internal/config"
)

var (
	cfg     *config.Config
	cfgOnce sync.Once
)

func getConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg = config.FromEnv()
	})
	return cfg
}
